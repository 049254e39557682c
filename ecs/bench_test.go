package ecs_test

import (
	"testing"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

func BenchmarkCreateDestroy(b *testing.B) {
	w := newTestWorld(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := w.Create()
		w.Destroy(id)
	}
}

func BenchmarkCreateWith(b *testing.B) {
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: b.N + 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = w.CreateWith(ecs.KindTransform, ecs.KindPhysics, ecs.KindCollision)
	}
}

func BenchmarkAddComponent(b *testing.B) {
	w := ecs.NewWorld(ecs.WorldConfig{MaxEntities: b.N + 1})

	ids := make([]ecs.EntityID, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = w.Create()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.AddComponent(ids[i], ecs.KindPhysics)
	}
}

func BenchmarkGetComponent(b *testing.B) {
	w := newTestWorld(4)
	id, _ := w.CreateWith(ecs.KindTransform)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.Transform(id)
	}
}

func BenchmarkQuery(b *testing.B) {
	w := newTestWorld(10000)
	for i := 0; i < 10000; i++ {
		if i%2 == 0 {
			_, _ = w.CreateWith(ecs.KindTransform, ecs.KindPhysics)
		} else {
			_, _ = w.CreateWith(ecs.KindTransform)
		}
	}
	mask := ecs.MaskOf(ecs.KindTransform, ecs.KindPhysics)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for id := range w.Query(mask) {
			_ = id
		}
	}
}

func BenchmarkUpdateWorldTransforms(b *testing.B) {
	w := newTestWorld(1024)
	root, _ := w.CreateWith(ecs.KindSceneNode)
	for i := 0; i < ecs.MaxSceneChildren; i++ {
		child, _ := w.CreateWith(ecs.KindSceneNode)
		_ = w.AddChild(root, child)
		_ = w.SetLocalTransform(child, mgl32.Translate3D(float32(i), 0, 0))
		for j := 0; j < ecs.MaxSceneChildren; j++ {
			leaf, _ := w.CreateWith(ecs.KindSceneNode)
			_ = w.AddChild(child, leaf)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.UpdateWorldTransforms()
	}
}

func BenchmarkSchedulerTick(b *testing.B) {
	w := newTestWorld(4)
	s := ecs.NewScheduler(nil)
	noop := func(*ecs.World, *ecs.Context, float32) {}
	for st := ecs.SystemType(0); st < ecs.SystemTypeCount; st++ {
		_ = s.Register(st, "", 60, noop)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Tick(w, 1.0/60.0)
	}
}
