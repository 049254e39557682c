package systems

import "github.com/atimics/signal-sub000/ecs"

const (
	// MemoryResource names the pool usage report resource.
	MemoryResource = "memory.report"

	// PoolWarnFill is the pool fill ratio above which Memory warns.
	PoolWarnFill = 0.9
)

// MemoryReport is the latest pool usage scan.
type MemoryReport struct {
	Entities       int
	EntityCapacity int
	Pools          [ecs.KindCount]ecs.PoolUsage
	Warned         [ecs.KindCount]bool
}

// Pressured returns the kinds whose pools are above PoolWarnFill.
func (r *MemoryReport) Pressured() []ecs.ComponentKind {
	var kinds []ecs.ComponentKind
	for k, u := range r.Pools {
		if u.Fill() > PoolWarnFill {
			kinds = append(kinds, ecs.ComponentKind(k))
		}
	}
	return kinds
}

// Memory scans every component pool. A warning is logged when a pool
// first rises above PoolWarnFill and again only after it drops back.
func Memory(w *ecs.World, ctx *ecs.Context, dt float32) {
	report := ecs.ResourceOrInit[MemoryReport](ctx.Resources, MemoryResource)
	report.Entities = w.Len()
	report.EntityCapacity = w.Capacity()

	for kind := ecs.ComponentKind(0); kind < ecs.KindCount; kind++ {
		u := w.PoolUsage(kind)
		report.Pools[kind] = u

		high := u.Fill() > PoolWarnFill
		if high && !report.Warned[kind] {
			ctx.Logger.Warn("component pool nearly exhausted",
				"kind", kind,
				"used", u.Used,
				"live", u.Live,
				"capacity", u.Capacity,
			)
		}
		report.Warned[kind] = high
	}
}
