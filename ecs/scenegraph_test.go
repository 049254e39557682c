package ecs_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T, w *ecs.World) ecs.EntityID {
	t.Helper()
	id, err := w.CreateWith(ecs.KindSceneNode)
	require.NoError(t, err)
	return id
}

func TestAddChildLinksBothSides(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	a := newNode(t, w)

	require.NoError(t, w.AddChild(root, a))

	assert.Equal(t, root, w.Parent(a))
	assert.Equal(t, []ecs.EntityID{a}, w.Children(root))
	assert.Equal(t, 1, w.SceneNode(a).Depth)
	assert.True(t, w.SceneNode(a).Dirty)
	assert.Equal(t, []ecs.EntityID{root}, w.Roots())
}

func TestAddChildRejections(t *testing.T) {
	w := newTestWorld(32)
	root := newNode(t, w)
	other := newNode(t, w)
	child := newNode(t, w)
	plain := w.Create()

	require.NoError(t, w.AddChild(root, child))

	tests := []struct {
		name   string
		parent ecs.EntityID
		child  ecs.EntityID
		err    error
	}{
		{"already parented", other, child, ecs.ErrAlreadyParented},
		{"self", root, root, ecs.ErrSelfParent},
		{"parent without node", plain, other, ecs.ErrNotSceneNode},
		{"child without node", other, plain, ecs.ErrNotSceneNode},
		{"missing entity", 999, other, ecs.ErrNotSceneNode},
		{"cycle", child, root, ecs.ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, w.AddChild(tt.parent, tt.child), tt.err)
			assert.Equal(t, root, w.Parent(child), "no mutation")
			assert.Equal(t, []ecs.EntityID{child}, w.Children(root))
		})
	}
}

func TestAddChildCycleThroughChain(t *testing.T) {
	w := newTestWorld(8)
	a := newNode(t, w)
	b := newNode(t, w)
	c := newNode(t, w)

	require.NoError(t, w.AddChild(a, b))
	require.NoError(t, w.AddChild(b, c))

	// a is a root, so the ancestor check is what stops c -> a.
	assert.ErrorIs(t, w.AddChild(c, a), ecs.ErrCycle)
	assert.Equal(t, ecs.InvalidEntity, w.Parent(a))
	assert.Empty(t, w.Children(c))
}

func TestAddChildCapacity(t *testing.T) {
	w := newTestWorld(ecs.MaxSceneChildren + 4)
	parent := newNode(t, w)

	for range ecs.MaxSceneChildren {
		require.NoError(t, w.AddChild(parent, newNode(t, w)))
	}

	extra := newNode(t, w)
	assert.ErrorIs(t, w.AddChild(parent, extra), ecs.ErrChildrenFull)
	assert.Equal(t, ecs.InvalidEntity, w.Parent(extra))
	assert.Len(t, w.Children(parent), ecs.MaxSceneChildren)
}

func TestAddChildDepthLimit(t *testing.T) {
	w := newTestWorld(ecs.MaxSceneDepth + 4)
	prev := newNode(t, w)
	for range ecs.MaxSceneDepth {
		next := newNode(t, w)
		require.NoError(t, w.AddChild(prev, next))
		prev = next
	}
	assert.Equal(t, ecs.MaxSceneDepth, w.SceneNode(prev).Depth)

	assert.ErrorIs(t, w.AddChild(prev, newNode(t, w)), ecs.ErrSceneTooDeep)
}

func TestAddChildRedepthsSubtree(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	a := newNode(t, w)
	b := newNode(t, w)

	require.NoError(t, w.AddChild(a, b))
	require.NoError(t, w.AddChild(root, a))

	assert.Equal(t, 1, w.SceneNode(a).Depth)
	assert.Equal(t, 2, w.SceneNode(b).Depth)
}

func TestRemoveChild(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	other := newNode(t, w)
	a := newNode(t, w)
	b := newNode(t, w)
	c := newNode(t, w)

	require.NoError(t, w.AddChild(root, a))
	require.NoError(t, w.AddChild(root, b))
	require.NoError(t, w.AddChild(root, c))

	assert.ErrorIs(t, w.RemoveChild(other, b), ecs.ErrParentMismatch)
	assert.Equal(t, root, w.Parent(b))

	require.NoError(t, w.RemoveChild(root, b))
	assert.Equal(t, []ecs.EntityID{a, c}, w.Children(root), "list is compacted")
	assert.Equal(t, ecs.InvalidEntity, w.Parent(b))
	assert.Equal(t, 0, w.SceneNode(b).Depth)
	assert.True(t, w.SceneNode(b).Dirty)

	assert.ErrorIs(t, w.RemoveChild(root, b), ecs.ErrParentMismatch)
	assert.ErrorIs(t, w.RemoveChild(root, w.Create()), ecs.ErrNotSceneNode)
}

func TestUpdateWorldTransformsChain(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	a := newNode(t, w)
	b := newNode(t, w)

	require.NoError(t, w.AddChild(root, a))
	require.NoError(t, w.AddChild(a, b))
	require.NoError(t, w.SetLocalTransform(root, mgl32.Translate3D(1, 0, 0)))
	require.NoError(t, w.SetLocalTransform(a, mgl32.Translate3D(0, 2, 0)))

	assert.Equal(t, 3, w.UpdateWorldTransforms())

	expected := mgl32.Translate3D(1, 2, 0)
	assert.True(t, w.SceneNode(b).World.ApproxEqual(expected))
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, w.SceneNode(b).WorldPosition())
	assert.False(t, w.SceneNode(b).Dirty)

	first := w.SceneNode(b).World
	assert.Equal(t, 3, w.UpdateWorldTransforms())
	assert.Equal(t, first, w.SceneNode(b).World, "update is idempotent")
}

func TestUpdateWorldTransformsOrderIndependent(t *testing.T) {
	w := newTestWorld(8)
	// Create the child before the parent so table order is child-first.
	child := newNode(t, w)
	parent := newNode(t, w)
	require.NoError(t, w.AddChild(parent, child))

	require.NoError(t, w.SetLocalTransform(parent, mgl32.Translate3D(5, 0, 0)))
	require.NoError(t, w.SetLocalTransform(child, mgl32.Scale3D(2, 2, 2)))

	w.UpdateWorldTransforms()

	expected := mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	assert.True(t, w.SceneNode(child).World.ApproxEqual(expected))
}

func TestUpdateWorldTransformsComposesRotation(t *testing.T) {
	w := newTestWorld(8)
	parent := newNode(t, w)
	child := newNode(t, w)
	require.NoError(t, w.AddChild(parent, child))

	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(90))
	require.NoError(t, w.SetLocalTransform(parent, rot))
	require.NoError(t, w.SetLocalTransform(child, mgl32.Translate3D(1, 0, 0)))

	w.UpdateWorldTransforms()

	pos := w.SceneNode(child).WorldPosition()
	assert.InDelta(t, 0, pos.X(), 1e-5)
	assert.InDelta(t, 1, pos.Y(), 1e-5)
}

func TestSyncLocalFromTransform(t *testing.T) {
	w := newTestWorld(4)
	id, err := w.CreateWith(ecs.KindSceneNode, ecs.KindTransform)
	require.NoError(t, err)

	tr := w.Transform(id)
	tr.Position = mgl32.Vec3{4, 5, 6}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	require.True(t, w.SyncLocalFromTransform(id))
	assert.False(t, tr.Dirty)

	w.UpdateWorldTransforms()
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, w.SceneNode(id).WorldPosition())

	assert.False(t, w.SyncLocalFromTransform(newNode(t, w)))
}

func TestDestroyUnlinksNode(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	mid := newNode(t, w)
	leaf := newNode(t, w)

	require.NoError(t, w.AddChild(root, mid))
	require.NoError(t, w.AddChild(mid, leaf))

	require.True(t, w.Destroy(mid))

	assert.Empty(t, w.Children(root))
	assert.Equal(t, ecs.InvalidEntity, w.Parent(leaf), "children are promoted to roots")
	assert.Equal(t, 0, w.SceneNode(leaf).Depth)
	assert.ElementsMatch(t, []ecs.EntityID{root, leaf}, w.Roots())

	// The promoted leaf can be re-parented.
	require.NoError(t, w.AddChild(root, leaf))
}

func TestRemoveSceneNodeComponentUnlinks(t *testing.T) {
	w := newTestWorld(8)
	root := newNode(t, w)
	child := newNode(t, w)
	require.NoError(t, w.AddChild(root, child))

	require.NoError(t, w.RemoveComponent(child, ecs.KindSceneNode))
	assert.Empty(t, w.Children(root))
	assert.Equal(t, ecs.InvalidEntity, w.Parent(child))
}

func TestFindByName(t *testing.T) {
	w := newTestWorld(8)
	a := newNode(t, w)
	b := newNode(t, w)
	w.SceneNode(a).Name = "hull"
	w.SceneNode(b).Name = "turret"

	id, ok := w.FindByName("turret")
	assert.True(t, ok)
	assert.Equal(t, b, id)

	_, ok = w.FindByName("engine")
	assert.False(t, ok)
	_, ok = w.FindByName("")
	assert.False(t, ok)
}

func TestUpdateWorldTransformsVisitsOnce(t *testing.T) {
	w := newTestWorld(8)
	a := newNode(t, w)
	b := newNode(t, w)
	require.NoError(t, w.AddChild(a, b))

	// Corrupt the graph by hand: b also lists a as a child.
	nb := w.SceneNode(b)
	nb.Children[0] = a
	nb.ChildCount = 1

	assert.Equal(t, 2, w.UpdateWorldTransforms())
}
