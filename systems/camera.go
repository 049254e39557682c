package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

var up = mgl32.Vec3{0, 1, 0}

// Camera moves every active camera towards its follow position and rebuilds
// its view and projection matrices.
func Camera(w *ecs.World, ctx *ecs.Context, dt float32) {
	for id := range w.Query(ecs.MaskOf(ecs.KindCamera, ecs.KindTransform)) {
		cam := w.Camera(id)
		if !cam.Active {
			continue
		}
		t := w.Transform(id)

		eye := t.Position
		center := eye.Add(t.Rotation.Normalize().Rotate(forward))

		if target := w.Transform(cam.Target); target != nil && cam.Behavior != ecs.CameraStatic {
			rot := target.Rotation.Normalize()
			switch cam.Behavior {
			case ecs.CameraFirstPerson:
				eye = target.Position
				center = eye.Add(rot.Rotate(forward))
			default:
				desired := target.Position.Add(rot.Rotate(cam.FollowOffset))
				eye = eye.Add(desired.Sub(eye).Mul(followBlend(cam.FollowSmoothing, dt)))
				center = target.Position
			}
			t.Position = eye
			t.Dirty = true
		}

		if center.Sub(eye).Len() > 0 {
			cam.View = mgl32.LookAtV(eye, center, up)
		}
		cam.Projection = mgl32.Perspective(mgl32.DegToRad(cam.FOV), cam.AspectRatio, cam.Near, cam.Far)
	}
}

// followBlend returns the fraction of the remaining distance to cover this
// step. Zero smoothing snaps.
func followBlend(smoothing, dt float32) float32 {
	if smoothing <= 0 {
		return 1
	}
	return clamp(dt/smoothing, 0, 1)
}
