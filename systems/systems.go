// Package systems provides the default update function for every scheduler
// slot and the default frequency table.
package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Entry is one row of the default system table.
type Entry struct {
	Type      ecs.SystemType
	Frequency float64
	Update    ecs.SystemFunc
}

// Table returns the default system table in execution order.
func Table() []Entry {
	return []Entry{
		{ecs.SystemControl, 60, Control},
		{ecs.SystemThrusters, 60, Thrusters},
		{ecs.SystemPhysics, 60, Physics},
		{ecs.SystemCollision, 20, Collision},
		{ecs.SystemAI, 5, AI},
		{ecs.SystemCamera, 60, Camera},
		{ecs.SystemLOD, 30, LOD},
		{ecs.SystemPerformance, 10, Performance},
		{ecs.SystemMemory, 2, Memory},
	}
}

// RegisterDefaults fills every scheduler slot from Table.
func RegisterDefaults(s *ecs.Scheduler) error {
	for _, e := range Table() {
		if err := s.Register(e.Type, e.Type.String(), e.Frequency, e.Update); err != nil {
			return err
		}
	}
	return nil
}

// ActiveCamera returns the first active camera that has a Transform.
func ActiveCamera(w *ecs.World) (ecs.EntityID, bool) {
	for id := range w.Query(ecs.MaskOf(ecs.KindCamera, ecs.KindTransform)) {
		if w.Camera(id).Active {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

// forward is the body-space facing direction.
var forward = mgl32.Vec3{0, 0, 1}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

func clampVec(v mgl32.Vec3, lo, hi float32) mgl32.Vec3 {
	return mgl32.Vec3{clamp(v[0], lo, hi), clamp(v[1], lo, hi), clamp(v[2], lo, hi)}
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// rotationOf returns id's orientation, or identity without a Transform.
func rotationOf(w *ecs.World, id ecs.EntityID) mgl32.Quat {
	if t := w.Transform(id); t != nil {
		return t.Rotation.Normalize()
	}
	return mgl32.QuatIdent()
}
