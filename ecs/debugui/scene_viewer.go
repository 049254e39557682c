package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

// SceneViewer draws the scene graph as a tree rooted at every parentless node.
type SceneViewer struct {
	showWorldPos bool
}

// NewSceneViewer creates a viewer that shows world positions.
func NewSceneViewer() *SceneViewer {
	return &SceneViewer{showWorldPos: true}
}

// Render returns the node clicked this frame, or InvalidEntity.
func (sv *SceneViewer) Render(w *ecs.World, selected ecs.EntityID) ecs.EntityID {
	if !imgui.BeginV("Scene Graph", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ecs.InvalidEntity
	}

	roots := w.Roots()
	imgui.Text(fmt.Sprintf("Roots: %d", len(roots)))
	imgui.SameLine()
	imgui.Checkbox("World positions", &sv.showWorldPos)
	imgui.Separator()

	picked := ecs.InvalidEntity
	for _, root := range roots {
		if id := sv.renderNode(w, root, selected, 0); id != ecs.InvalidEntity {
			picked = id
		}
	}

	imgui.End()
	return picked
}

func (sv *SceneViewer) renderNode(w *ecs.World, id, selected ecs.EntityID, depth int) ecs.EntityID {
	node := w.SceneNode(id)
	if node == nil || depth > ecs.MaxSceneDepth {
		return ecs.InvalidEntity
	}

	label := NodeLabel(id, node, sv.showWorldPos)
	picked := ecs.InvalidEntity

	if node.ChildCount == 0 {
		if imgui.SelectableBoolV(label, id == selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
			picked = id
		}
		return picked
	}

	open := imgui.TreeNodeStr(label)
	imgui.SameLine()
	if imgui.Button(fmt.Sprintf("select##%d", id)) {
		picked = id
	}
	if open {
		for _, child := range node.ChildIDs() {
			if got := sv.renderNode(w, child, selected, depth+1); got != ecs.InvalidEntity {
				picked = got
			}
		}
		imgui.TreePop()
	}
	return picked
}

// NodeLabel formats a tree row. The ##id suffix keeps ImGui ids unique when
// names repeat.
func NodeLabel(id ecs.EntityID, node *ecs.SceneNode, withPos bool) string {
	name := node.Name
	if name == "" {
		name = id.String()
	}
	if !node.Visible {
		name += " (hidden)"
	}
	if withPos {
		p := node.WorldPosition()
		name += fmt.Sprintf(" [%.1f %.1f %.1f]", p.X(), p.Y(), p.Z())
	}
	return fmt.Sprintf("%s##%d", name, id)
}
