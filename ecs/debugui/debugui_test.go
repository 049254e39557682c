package debugui

import (
	"reflect"
	"testing"
	"time"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorld(t *testing.T) (*ecs.World, ecs.EntityID, ecs.EntityID, ecs.EntityID) {
	t.Helper()
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: 16})
	ship, err := w.CreateWith(ecs.KindTransform, ecs.KindPhysics, ecs.KindSceneNode)
	require.NoError(t, err)
	w.SceneNode(ship).Name = "Hull"
	rock, err := w.CreateWith(ecs.KindTransform, ecs.KindCollision)
	require.NoError(t, err)
	dust, err := w.CreateWith(ecs.KindTransform, ecs.KindCollision)
	require.NoError(t, err)
	return w, ship, rock, dust
}

func TestEntityBrowserFilters(t *testing.T) {
	w, ship, rock, dust := testWorld(t)
	eb := NewEntityBrowser(10)
	eb.Refresh(w)
	require.Len(t, eb.Filtered(), 3)

	eb.SetFilterText("hull")
	filtered := eb.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, ship, filtered[0].ID)

	eb.SetFilterText("")
	eb.SetKindFilter(ecs.KindCollision)
	var ids []ecs.EntityID
	for _, e := range eb.Filtered() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []ecs.EntityID{rock, dust}, ids)
}

func TestEntityBrowserRefresh(t *testing.T) {
	w, ship, rock, _ := testWorld(t)
	eb := NewEntityBrowser(10)
	eb.Select(rock)
	eb.Refresh(w)

	require.NoError(t, w.AddComponent(ship, ecs.KindAI))
	eb.Refresh(w)
	assert.Equal(t, 4, eb.Filtered()[0].ComponentCount, "component changes are picked up")

	w.Destroy(rock)
	eb.Refresh(w)
	assert.Len(t, eb.Filtered(), 2)
	assert.Equal(t, ecs.InvalidEntity, eb.Selected(), "destroyed selection is cleared")
}

func TestMaskViewerGroups(t *testing.T) {
	w, _, _, _ := testWorld(t)
	mv := NewMaskViewer()
	mv.Rebuild(w)

	masks := mv.Masks()
	require.Len(t, masks, 2)
	assert.Equal(t, ecs.MaskOf(ecs.KindTransform, ecs.KindCollision), masks[0].Mask, "largest group first")
	assert.Equal(t, 2, masks[0].EntityCount)
	assert.Equal(t, 3, masks[1].ComponentCount)
}

func TestQueryDebugger(t *testing.T) {
	w, ship, _, _ := testWorld(t)
	qd := NewQueryDebugger()

	qd.Select(ecs.KindTransform, true)
	qd.Select(ecs.KindPhysics, true)
	assert.Equal(t, ecs.MaskOf(ecs.KindTransform, ecs.KindPhysics), qd.Mask())
	assert.Equal(t, []ecs.EntityID{ship}, qd.Run(w))

	qd.Select(ecs.KindPhysics, false)
	assert.Len(t, qd.Run(w), 3)
}

func TestNodeLabel(t *testing.T) {
	w, ship, _, _ := testWorld(t)
	node := w.SceneNode(ship)
	node.World = mgl32.Translate3D(1, 2, 3)

	assert.Equal(t, "Hull [1.0 2.0 3.0]##1", NodeLabel(ship, node, true))

	node.Name = ""
	node.Visible = false
	assert.Equal(t, "Entity(1) (hidden)##1", NodeLabel(ship, node, false))
}

func TestPerformanceStatsAverage(t *testing.T) {
	ps := NewPerformanceStats(4)
	assert.Zero(t, ps.AverageMillis())

	ps.Record(0.010, nil)
	ps.Record(0.020, nil)
	assert.InDelta(t, 15, ps.AverageMillis(), 1e-4)

	for range 4 {
		ps.Record(0.005, nil)
	}
	assert.InDelta(t, 5, ps.AverageMillis(), 1e-4)
}

func TestPerformanceStatsSystemHistory(t *testing.T) {
	ps := NewPerformanceStats(3)
	sched := &ecs.SchedulerStats{Systems: []ecs.SystemStats{
		{Type: ecs.SystemPhysics, LastDuration: 2 * time.Millisecond},
	}}

	ps.Record(0.016, sched)
	sched.Systems[0].LastDuration = 4 * time.Millisecond
	ps.Record(0.016, sched)

	assert.Equal(t, []float32{0, 2, 4}, ps.ordered(ps.systemHistory[ecs.SystemPhysics]))
}

func TestReflectionCache(t *testing.T) {
	rc := NewReflectionCache()
	fields := rc.GetFields(reflect.TypeOf(ecs.SceneNode{}))

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.NotContains(t, names, "visitEpoch")
	assert.Contains(t, names, "Children")

	for _, f := range fields {
		if f.Name == "Children" {
			assert.True(t, f.IsArray)
		}
	}

	again := rc.GetFields(reflect.TypeOf(ecs.SceneNode{}))
	assert.Equal(t, fields, again)
	assert.Equal(t, 1, rc.Len())
	assert.Empty(t, rc.GetFields(reflect.TypeOf(0)))
}
