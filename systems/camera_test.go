package systems_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/systems"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraFollowsTarget(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	target := spawn(t, w, ecs.KindTransform)
	w.Transform(target).Position = mgl32.Vec3{0, 0, 10}

	cam := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	c := w.Camera(cam)
	c.Active = true
	c.Target = target
	c.FollowSmoothing = 0

	systems.Camera(w, ctx, 1.0/60.0)

	eye := mgl32.Vec3{0, 3, 0}
	assertVec(t, eye, w.Transform(cam).Position)
	assert.True(t, c.View.ApproxEqual(mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 1, 0})))
	assert.True(t, c.Projection.ApproxEqual(mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 1000)))
}

func TestCameraSmoothing(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	target := spawn(t, w, ecs.KindTransform)
	cam := spawn(t, w, ecs.KindTransform, ecs.KindCamera)

	c := w.Camera(cam)
	c.Active = true
	c.Target = target
	c.FollowOffset = mgl32.Vec3{0, 0, -10}
	c.FollowSmoothing = 0.1

	systems.Camera(w, ctx, 0.05)

	assertVec(t, mgl32.Vec3{0, 0, -5}, w.Transform(cam).Position)
}

func TestCameraSkipsInactiveAndStatic(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	target := spawn(t, w, ecs.KindTransform)
	w.Transform(target).Position = mgl32.Vec3{5, 5, 5}

	inactive := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	w.Camera(inactive).Target = target

	static := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	w.Camera(static).Active = true
	w.Camera(static).Target = target
	w.Camera(static).Behavior = ecs.CameraStatic

	systems.Camera(w, ctx, 1)

	assert.Equal(t, mgl32.Ident4(), w.Camera(inactive).Projection)
	assertVec(t, mgl32.Vec3{}, w.Transform(static).Position)
	assert.True(t, w.Camera(static).View.ApproxEqual(
		mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})))
}

func TestCameraFirstPerson(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	target := spawn(t, w, ecs.KindTransform)
	w.Transform(target).Position = mgl32.Vec3{1, 2, 3}

	cam := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	w.Camera(cam).Active = true
	w.Camera(cam).Target = target
	w.Camera(cam).Behavior = ecs.CameraFirstPerson

	systems.Camera(w, ctx, 1.0/60.0)

	assertVec(t, mgl32.Vec3{1, 2, 3}, w.Transform(cam).Position)
}

func TestLOD(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)

	place := func(z float32) ecs.EntityID {
		id := spawn(t, w, ecs.KindTransform, ecs.KindRenderable)
		w.Transform(id).Position = mgl32.Vec3{0, 0, z}
		return id
	}
	near, mid, far, culled := place(10), place(100), place(200), place(600)

	// Without an active camera nothing changes.
	w.Renderable(culled).LODLevel = 7
	systems.LOD(w, ctx, 1.0/30.0)
	assert.Equal(t, 7, w.Renderable(culled).LODLevel)

	cam := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	w.Camera(cam).Active = true
	systems.LOD(w, ctx, 1.0/30.0)

	assert.Equal(t, 0, w.Renderable(near).LODLevel)
	assert.Equal(t, 1, w.Renderable(mid).LODLevel)
	assert.Equal(t, 2, w.Renderable(far).LODLevel)
	assert.True(t, w.Renderable(far).Visible)
	assert.False(t, w.Renderable(culled).Visible)

	w.Transform(culled).Position = mgl32.Vec3{0, 0, 20}
	systems.LOD(w, ctx, 1.0/30.0)
	assert.True(t, w.Renderable(culled).Visible)
	assert.Equal(t, 0, w.Renderable(culled).LODLevel)
}

func TestLODHiddenSceneNode(t *testing.T) {
	w := newWorld()
	ctx := ecs.NewContext(nil, nil)
	cam := spawn(t, w, ecs.KindTransform, ecs.KindCamera)
	w.Camera(cam).Active = true

	id := spawn(t, w, ecs.KindTransform, ecs.KindRenderable, ecs.KindSceneNode)
	w.SceneNode(id).Visible = false

	systems.LOD(w, ctx, 1.0/30.0)
	assert.False(t, w.Renderable(id).Visible)
}
