package main

import (
	"testing"

	"github.com/atimics/signal-sub000/assets"
	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/systems"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) (*ecs.World, *assets.Registry, *Scene) {
	t.Helper()
	reg := assets.NewRegistry()
	require.NoError(t, loadAssets(reg))
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: 64})
	scene, err := buildScene(w, reg, 3, 4, 10)
	require.NoError(t, err)
	return w, reg, scene
}

func TestBuildScene(t *testing.T) {
	w, reg, scene := newScene(t)

	assert.Equal(t, len(sceneMeshes)+len(sceneMaterials), reg.Len())
	assert.Equal(t, 1+1+1+4+10, w.Len())
	assert.Len(t, scene.Drones, 4)

	beacon, ok := w.FindByName("beacon")
	require.True(t, ok)
	assert.Equal(t, scene.Player, w.Parent(beacon))

	cam, ok := systems.ActiveCamera(w)
	require.True(t, ok)
	assert.Equal(t, scene.Camera, cam)

	ship, _ := reg.Lookup(assets.KindMesh, "ship")
	assert.Equal(t, ship, w.Renderable(scene.Player).Mesh)
}

func TestBuildSceneWorldFull(t *testing.T) {
	reg := assets.NewRegistry()
	require.NoError(t, loadAssets(reg))
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: 5})

	_, err := buildScene(w, reg, 1, 4, 0)
	assert.ErrorIs(t, err, ecs.ErrWorldFull)
}

func TestBuildSceneMissingAssets(t *testing.T) {
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: 16})

	_, err := buildScene(w, assets.NewRegistry(), 1, 0, 0)
	assert.ErrorIs(t, err, ecs.ErrAssetNotFound)
}

func TestApplyInput(t *testing.T) {
	w, _, scene := newScene(t)

	applyInput(w, scene.Player, Input{Forward: true, Left: true, YawLeft: true, Boost: true})

	ctl := w.Control(scene.Player)
	assert.Equal(t, mgl32.Vec3{-1, 0, 1}, ctl.LinearInput)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ctl.AngularInput)
	assert.Equal(t, float32(1), ctl.BoostInput)

	applyInput(w, scene.Player, Input{Forward: true, Back: true})
	assert.Equal(t, mgl32.Vec3{}, ctl.LinearInput)
	assert.Zero(t, ctl.BoostInput)
}

func TestSceneRuns(t *testing.T) {
	reg := assets.NewRegistry()
	require.NoError(t, loadAssets(reg))
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: 16})
	scene, err := buildScene(w, reg, 1, 0, 0)
	require.NoError(t, err)
	s := ecs.NewScheduler(nil)
	require.NoError(t, systems.RegisterDefaults(s))

	applyInput(w, scene.Player, Input{Forward: true})
	for range 60 {
		s.Tick(w, tickRate)
	}

	assert.Greater(t, w.Transform(scene.Player).Position.Z(), float32(0))
	beacon, _ := w.FindByName("beacon")
	assert.InDelta(t, w.Transform(scene.Player).Position.Z()-3, w.SceneNode(beacon).WorldPosition().Z(), 1e-3)
}
