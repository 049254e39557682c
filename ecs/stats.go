package ecs

// WorldStats is a snapshot of entity and pool occupancy.
type WorldStats struct {
	EntityCount    int
	EntityCapacity int
	NextID         EntityID
	KindCounts     [KindCount]int
	Pools          []PoolUsage
	SceneRoots     int
	MaxSceneDepth  int
}

// CollectStats walks the entity table and every pool.
func (w *World) CollectStats() *WorldStats {
	stats := &WorldStats{
		EntityCount:    len(w.entities),
		EntityCapacity: w.maxEntities,
		NextID:         w.nextID,
		Pools:          make([]PoolUsage, 0, KindCount),
	}

	for i := range w.entities {
		e := &w.entities[i]
		for _, kind := range e.Mask.Kinds() {
			stats.KindCounts[kind]++
		}
		if node := w.SceneNode(e.ID); node != nil {
			if node.Parent == InvalidEntity {
				stats.SceneRoots++
			}
			if node.Depth > stats.MaxSceneDepth {
				stats.MaxSceneDepth = node.Depth
			}
		}
	}

	for kind := ComponentKind(0); kind < KindCount; kind++ {
		stats.Pools = append(stats.Pools, w.PoolUsage(kind))
	}
	return stats
}
