package systems

import "github.com/atimics/signal-sub000/ecs"

// LOD picks a detail level for every renderable from its distance to the
// active camera and hides those past their cull distance. Renderables under
// a hidden scene node stay hidden. Without an active camera nothing changes.
func LOD(w *ecs.World, ctx *ecs.Context, dt float32) {
	camID, ok := ActiveCamera(w)
	if !ok {
		return
	}
	eye := w.Transform(camID).Position

	for id := range w.Query(ecs.MaskOf(ecs.KindRenderable, ecs.KindTransform)) {
		r := w.Renderable(id)
		pos := w.Transform(id).Position
		if node := w.SceneNode(id); node != nil {
			pos = node.WorldPosition()
		}
		d := pos.Sub(eye).Len()

		switch {
		case d < r.LODDistances[0]:
			r.LODLevel = 0
		case d < r.LODDistances[1]:
			r.LODLevel = 1
		default:
			r.LODLevel = 2
		}

		r.Visible = d <= r.CullDistance
		if node := w.SceneNode(id); node != nil && !node.Visible {
			r.Visible = false
		}
	}
}
