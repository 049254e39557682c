package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

// QueryDebugger builds a mask from checkboxes and lists what World.Query
// returns for it.
type QueryDebugger struct {
	selected   [ecs.KindCount]bool
	maxListed  int
	lastResult []ecs.EntityID
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{maxListed: 50}
}

func (qd *QueryDebugger) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected = [ecs.KindCount]bool{}
	}

	for kind := ecs.ComponentKind(0); kind < ecs.KindCount; kind++ {
		imgui.Checkbox(kind.String(), &qd.selected[kind])
	}

	imgui.Separator()

	mask := qd.Mask()
	if mask == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	qd.Run(w)
	imgui.Text(fmt.Sprintf("Query %s", mask))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(qd.lastResult)))

	if imgui.TreeNodeStr("Matches") {
		for i, id := range qd.lastResult {
			if i == qd.maxListed {
				imgui.Text(fmt.Sprintf("... %d more", len(qd.lastResult)-i))
				break
			}
			imgui.BulletText(fmt.Sprintf("%s %s", id, w.Mask(id)))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Select toggles kind in the query mask.
func (qd *QueryDebugger) Select(kind ecs.ComponentKind, on bool) {
	if kind.Valid() {
		qd.selected[kind] = on
	}
}

// Mask returns the mask built from the selected kinds.
func (qd *QueryDebugger) Mask() ecs.ComponentMask {
	var kinds []ecs.ComponentKind
	for kind, on := range qd.selected {
		if on {
			kinds = append(kinds, ecs.ComponentKind(kind))
		}
	}
	return ecs.MaskOf(kinds...)
}

// Run executes the query and returns the matching entities.
func (qd *QueryDebugger) Run(w *ecs.World) []ecs.EntityID {
	qd.lastResult = qd.lastResult[:0]
	for id := range w.Query(qd.Mask()) {
		qd.lastResult = append(qd.lastResult, id)
	}
	return qd.lastResult
}
