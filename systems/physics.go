package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Physics integrates every rigid body with semi-implicit Euler, applies drag
// once per step, clears the force accumulators and then propagates moved
// transforms through the scene graph.
func Physics(w *ecs.World, ctx *ecs.Context, dt float32) {
	for id := range w.Query(ecs.MaskOf(ecs.KindTransform, ecs.KindPhysics)) {
		integrate(w.Transform(id), w.Physics(id), dt)
	}

	for id := range w.Query(ecs.MaskOf(ecs.KindTransform, ecs.KindSceneNode)) {
		if w.Transform(id).Dirty {
			w.SyncLocalFromTransform(id)
		}
	}
	w.UpdateWorldTransforms()
}

func integrate(t *ecs.Transform, ph *ecs.Physics, dt float32) {
	if !ph.Kinematic {
		mass := ph.Mass
		if mass <= 0 {
			mass = 1
		}
		accel := ph.Acceleration.Add(ph.ForceAccumulator.Mul(1 / mass))
		ph.Velocity = ph.Velocity.Add(accel.Mul(dt)).Mul(ph.Drag)

		angAccel := ph.TorqueAccumulator.Mul(1 / mass)
		ph.AngularVelocity = ph.AngularVelocity.Add(angAccel.Mul(dt)).Mul(ph.AngularDrag)
	}
	ph.ForceAccumulator = mgl32.Vec3{}
	ph.TorqueAccumulator = mgl32.Vec3{}

	if ph.Velocity != (mgl32.Vec3{}) {
		t.Position = t.Position.Add(ph.Velocity.Mul(dt))
		t.Dirty = true
	}

	if omega := ph.AngularVelocity; omega != (mgl32.Vec3{}) {
		angle := omega.Len() * dt
		if angle > 0 {
			step := mgl32.QuatRotate(angle, omega.Normalize())
			t.Rotation = t.Rotation.Mul(step).Normalize()
			t.Dirty = true
		}
	}
}
