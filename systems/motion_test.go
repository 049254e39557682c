package systems_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/systems"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestControlClampsInput(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindControl, ecs.KindThrusters)

	c := w.Control(id)
	c.FlightAssist = false
	c.LinearInput = mgl32.Vec3{2, -0.25, 0}
	c.AngularInput = mgl32.Vec3{0, -3, 0.5}
	c.Sensitivity = 1

	systems.Control(w, ctx, 1.0/60.0)

	th := w.Thrusters(id)
	assertVec(t, mgl32.Vec3{1, -0.25, 0}, th.CurrentLinearThrust)
	assertVec(t, mgl32.Vec3{0, -1, 0.5}, th.CurrentAngularThrust)

	c.BoostInput = 1
	systems.Control(w, ctx, 1.0/60.0)
	assertVec(t, mgl32.Vec3{1, -0.5, 0}, th.CurrentLinearThrust)
}

func TestControlFlightAssist(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics, ecs.KindControl, ecs.KindThrusters)

	w.Physics(id).Velocity = mgl32.Vec3{0.5, 0, 5}
	w.Physics(id).AngularVelocity = mgl32.Vec3{0, 0.2, 0}
	c := w.Control(id)
	c.LinearInput = mgl32.Vec3{1, 0, 0}
	c.AssistDamping = 0.9

	systems.Control(w, ctx, 1.0/60.0)

	th := w.Thrusters(id)
	assertVec(t, mgl32.Vec3{1, 0, -1}, th.CurrentLinearThrust)
	assertVec(t, mgl32.Vec3{0, -0.18, 0}, th.CurrentAngularThrust)
}

func TestControlRespectsPlayerInput(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	player := spawn(t, w, ecs.KindPlayer)
	id := spawn(t, w, ecs.KindControl, ecs.KindThrusters)

	c := w.Control(id)
	c.ControlledBy = player
	c.LinearInput = mgl32.Vec3{1, 0, 0}

	w.Player(player).InputEnabled = false
	systems.Control(w, ctx, 1.0/60.0)
	assertVec(t, mgl32.Vec3{}, w.Thrusters(id).CurrentLinearThrust)

	w.Player(player).InputEnabled = true
	systems.Control(w, ctx, 1.0/60.0)
	assertVec(t, mgl32.Vec3{1, 0, 0}, w.Thrusters(id).CurrentLinearThrust)
}

func TestThrustersRotateIntoWorldSpace(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics, ecs.KindThrusters)

	w.Transform(id).Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	th := w.Thrusters(id)
	th.CurrentLinearThrust = mgl32.Vec3{1, 0, 0}
	th.CurrentAngularThrust = mgl32.Vec3{0, 0, -1}
	th.Efficiency = 0.5

	systems.Thrusters(w, ctx, 1.0/60.0)

	ph := w.Physics(id)
	assertVec(t, mgl32.Vec3{0, 0, -50}, ph.ForceAccumulator)
	assertVec(t, mgl32.Vec3{0, 0, -5}, ph.TorqueAccumulator)

	th.Enabled = false
	ph.ForceAccumulator = mgl32.Vec3{}
	systems.Thrusters(w, ctx, 1.0/60.0)
	assertVec(t, mgl32.Vec3{}, ph.ForceAccumulator)
}

func TestPhysicsIntegrates(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics)

	ph := w.Physics(id)
	ph.Mass = 2
	ph.Drag = 1
	ph.AddForce(mgl32.Vec3{4, 0, 0})

	systems.Physics(w, ctx, 1)

	assertVec(t, mgl32.Vec3{2, 0, 0}, ph.Velocity)
	assertVec(t, mgl32.Vec3{2, 0, 0}, w.Transform(id).Position)
	assertVec(t, mgl32.Vec3{}, ph.ForceAccumulator)

	systems.Physics(w, ctx, 0.5)
	assertVec(t, mgl32.Vec3{3, 0, 0}, w.Transform(id).Position)
}

func TestPhysicsAppliesDrag(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics)
	w.Physics(id).Velocity = mgl32.Vec3{1, 0, 0}

	systems.Physics(w, ctx, 1)

	assertVec(t, mgl32.Vec3{0.99, 0, 0}, w.Physics(id).Velocity)
	assertVec(t, mgl32.Vec3{0.99, 0, 0}, w.Transform(id).Position)
}

func TestPhysicsKinematicIgnoresForces(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics)

	ph := w.Physics(id)
	ph.Kinematic = true
	ph.Velocity = mgl32.Vec3{0, 1, 0}
	ph.AddForce(mgl32.Vec3{100, 0, 0})

	systems.Physics(w, ctx, 1)

	assertVec(t, mgl32.Vec3{0, 1, 0}, ph.Velocity)
	assertVec(t, mgl32.Vec3{0, 1, 0}, w.Transform(id).Position)
	assertVec(t, mgl32.Vec3{}, ph.ForceAccumulator)
}

func TestPhysicsRotates(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	id := spawn(t, w, ecs.KindTransform, ecs.KindPhysics)

	ph := w.Physics(id)
	ph.AngularDrag = 1
	ph.AngularVelocity = mgl32.Vec3{0, mgl32.DegToRad(90), 0}

	systems.Physics(w, ctx, 1)

	facing := w.Transform(id).Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	assertVec(t, mgl32.Vec3{1, 0, 0}, facing)
}

func TestPhysicsPropagatesSceneGraph(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	parent := spawn(t, w, ecs.KindTransform, ecs.KindPhysics, ecs.KindSceneNode)
	child := spawn(t, w, ecs.KindTransform, ecs.KindSceneNode)
	assert.NoError(t, w.AddChild(parent, child))

	w.Transform(child).Position = mgl32.Vec3{0, 1, 0}
	ph := w.Physics(parent)
	ph.Drag = 1
	ph.Velocity = mgl32.Vec3{3, 0, 0}

	systems.Physics(w, ctx, 1)

	assertVec(t, mgl32.Vec3{3, 0, 0}, w.SceneNode(parent).WorldPosition())
	assertVec(t, mgl32.Vec3{3, 1, 0}, w.SceneNode(child).WorldPosition())
	assert.False(t, w.Transform(child).Dirty)
}
