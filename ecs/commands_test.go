package ecs_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsCreate(t *testing.T) {
	w := newTestWorld(4)
	cmds := ecs.NewCommands()

	cmds.Create(func(w *ecs.World, id ecs.EntityID) {
		w.Transform(id).Position = mgl32.Vec3{1, 2, 3}
	}, ecs.KindTransform, ecs.KindPhysics)
	assert.Equal(t, 1, cmds.Pending())
	assert.Equal(t, 0, w.Len(), "nothing happens before flush")

	assert.Zero(t, cmds.Flush(w))
	require.Equal(t, 1, w.Len())
	assert.Zero(t, cmds.Pending())

	id := ecs.EntityID(1)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, w.Transform(id).Position)
	assert.True(t, w.HasComponent(id, ecs.KindPhysics))
}

func TestCommandsAddRemove(t *testing.T) {
	w := newTestWorld(4)
	id, err := w.CreateWith(ecs.KindTransform)
	require.NoError(t, err)

	cmds := ecs.NewCommands()
	cmds.AddComponent(id, ecs.KindPhysics)
	cmds.RemoveComponent(id, ecs.KindTransform)
	assert.Zero(t, cmds.Flush(w))

	assert.Equal(t, ecs.MaskOf(ecs.KindPhysics), w.Mask(id))
}

func TestCommandsSkipDestroyedEntities(t *testing.T) {
	w := newTestWorld(4)
	id, err := w.CreateWith(ecs.KindTransform)
	require.NoError(t, err)

	cmds := ecs.NewCommands()
	cmds.AddComponent(id, ecs.KindPhysics)
	cmds.RemoveComponent(id, ecs.KindTransform)
	cmds.Destroy(id)
	cmds.Destroy(id)

	assert.Zero(t, cmds.Flush(w))
	assert.False(t, w.Exists(id))
}

func TestCommandsReportFailures(t *testing.T) {
	w := newTestWorld(1)
	cmds := ecs.NewCommands()

	cmds.Destroy(42)
	cmds.AddComponent(43, ecs.KindPhysics)
	cmds.Create(nil)
	cmds.Create(nil)

	assert.Equal(t, 3, cmds.Flush(w), "missing destroy, missing add, world full")
	assert.Equal(t, 1, w.Len())
}

func TestCommandsDeferRunsLast(t *testing.T) {
	w := newTestWorld(4)
	cmds := ecs.NewCommands()

	var seen int
	cmds.Defer(func() { seen = w.Len() })
	cmds.Create(nil, ecs.KindTransform)

	cmds.Flush(w)
	assert.Equal(t, 1, seen)
}

func TestCommandsQueuedDuringFlushRunNextFlush(t *testing.T) {
	w := newTestWorld(4)
	victim := w.Create()
	cmds := ecs.NewCommands()

	cmds.Create(func(*ecs.World, ecs.EntityID) {
		cmds.Destroy(victim)
	}, ecs.KindTransform)
	cmds.Defer(func() {
		cmds.AddComponent(victim, ecs.KindPhysics)
	})

	assert.Zero(t, cmds.Flush(w))
	assert.True(t, w.Exists(victim), "chained commands wait for the next flush")
	assert.Equal(t, 2, cmds.Pending())

	// The destroy wins over the add queued for the same entity.
	assert.Zero(t, cmds.Flush(w))
	assert.False(t, w.Exists(victim))
	assert.Zero(t, cmds.Pending())
}
