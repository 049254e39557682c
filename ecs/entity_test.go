package ecs_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/stretchr/testify/assert"
)

func TestComponentMask(t *testing.T) {
	m := ecs.MaskOf(ecs.KindTransform, ecs.KindSceneNode)

	assert.True(t, m.Has(ecs.KindTransform))
	assert.True(t, m.Has(ecs.KindSceneNode))
	assert.False(t, m.Has(ecs.KindPhysics))
	assert.False(t, m.Has(ecs.KindCount))
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, []ecs.ComponentKind{ecs.KindTransform, ecs.KindSceneNode}, m.Kinds())
	assert.Equal(t, "{transform,scene_node}", m.String())

	assert.True(t, m.Contains(ecs.MaskOf(ecs.KindTransform)))
	assert.False(t, m.Contains(ecs.MaskOf(ecs.KindTransform, ecs.KindPhysics)))
	assert.Equal(t, "{}", ecs.ComponentMask(0).String())
}

func TestComponentKindNames(t *testing.T) {
	for k := ecs.ComponentKind(0); k < ecs.KindCount; k++ {
		parsed, ok := ecs.ParseComponentKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	_, ok := ecs.ParseComponentKind("nonsense")
	assert.False(t, ok)
	assert.Equal(t, "ComponentKind(200)", ecs.ComponentKind(200).String())
}

func TestEntityIDString(t *testing.T) {
	assert.Equal(t, "Entity(invalid)", ecs.InvalidEntity.String())
	assert.Equal(t, "Entity(12)", ecs.EntityID(12).String())
	assert.False(t, ecs.InvalidEntity.Valid())
	assert.True(t, ecs.EntityID(1).Valid())
}
