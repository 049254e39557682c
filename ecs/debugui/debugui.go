// Package debugui provides Dear ImGui introspection panels for a World and
// its Scheduler.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

// InputResource names the resource holding the latest InputState.
const InputResource = "debugui.input"

// InputState tracks Dear ImGui's input capture state. Game input handling
// should skip the mouse or keyboard while ImGui wants it.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// DebugUI owns every panel and the extra render functions registered with
// AddItem. Call Render between the backend's BeginFrame and EndFrame.
type DebugUI struct {
	browser   *EntityBrowser
	inspector *ComponentInspector
	masks     *MaskViewer
	scene     *SceneViewer
	query     *QueryDebugger
	perf      *PerformanceStats

	items []func()
}

// New creates the default panel set.
func New() *DebugUI {
	return &DebugUI{
		browser:   NewEntityBrowser(100),
		inspector: NewComponentInspector(),
		masks:     NewMaskViewer(),
		scene:     NewSceneViewer(),
		query:     NewQueryDebugger(),
		perf:      NewPerformanceStats(120),
	}
}

// AddItem registers an extra render function called on every Render.
func (d *DebugUI) AddItem(render func()) {
	d.items = append(d.items, render)
}

// Selected returns the entity picked in the browser or scene viewer.
func (d *DebugUI) Selected() ecs.EntityID {
	return d.browser.Selected()
}

// Render draws every panel. s may be nil when no scheduler is running.
func (d *DebugUI) Render(w *ecs.World, s *ecs.Scheduler, dt float32) {
	if kind, ok := d.masks.Render(w); ok {
		d.browser.SetKindFilter(kind)
	}
	d.browser.Render(w)
	if picked := d.scene.Render(w, d.browser.Selected()); picked != ecs.InvalidEntity {
		d.browser.Select(picked)
	}
	d.inspector.Render(w, d.browser.Selected())
	d.query.Render(w)
	d.perf.Render(w, s, dt)

	for _, item := range d.items {
		item()
	}
}

// UpdateInputState copies ImGui's capture flags into res.
func UpdateInputState(res *ecs.Resources) *InputState {
	state := ecs.ResourceOrInit[InputState](res, InputResource)
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	return state
}
