package main

import (
	"errors"
	"math/rand/v2"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// archetypes are the component sets spawned by the churner.
var archetypes = [][]ecs.ComponentKind{
	{ecs.KindTransform, ecs.KindPhysics, ecs.KindCollision},
	{ecs.KindTransform, ecs.KindPhysics, ecs.KindCollision, ecs.KindAI},
	{ecs.KindTransform, ecs.KindPhysics, ecs.KindThrusters, ecs.KindControl, ecs.KindAI},
	{ecs.KindTransform, ecs.KindRenderable, ecs.KindSceneNode},
	{ecs.KindTransform, ecs.KindCollision},
}

// ChurnStats counts what the churner did.
type ChurnStats struct {
	Created        int64
	Destroyed      int64
	CreateFailures int64
	PoolExhausted  int64
	WorldFull      int64
	Resets         int64
}

// Churner creates and destroys random entities every frame.
type Churner struct {
	world  *ecs.World
	rng    *rand.Rand
	live   []ecs.EntityID
	rate   float64
	reset  bool
	spread float32

	// OnReset runs after the world is cleared so callers can restore
	// entities the churner does not own.
	OnReset func(w *ecs.World)

	Stats ChurnStats
}

// NewChurner returns a churner replacing rate of the live population each
// frame. With reset set, the world is cleared when a pool runs dry.
func NewChurner(w *ecs.World, seed uint64, rate float64, reset bool) *Churner {
	return &Churner{
		world:  w,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		rate:   rate,
		reset:  reset,
		spread: 500,
	}
}

// Populate spawns n entities.
func (c *Churner) Populate(n int) {
	for range n {
		c.spawn()
	}
}

// Step destroys and respawns a rate-sized slice of the population.
func (c *Churner) Step() {
	n := int(float64(len(c.live)) * c.rate)
	if n == 0 && len(c.live) > 0 && c.rate > 0 {
		n = 1
	}

	for range n {
		if len(c.live) == 0 {
			break
		}
		i := c.rng.IntN(len(c.live))
		if c.world.Destroy(c.live[i]) {
			c.Stats.Destroyed++
		}
		c.live[i] = c.live[len(c.live)-1]
		c.live = c.live[:len(c.live)-1]
	}

	for range n {
		c.spawn()
	}
}

// Live returns the number of entities the churner is tracking.
func (c *Churner) Live() int {
	return len(c.live)
}

func (c *Churner) spawn() {
	kinds := archetypes[c.rng.IntN(len(archetypes))]
	id, err := c.world.CreateWith(kinds...)
	if err != nil {
		c.Stats.CreateFailures++
		switch {
		case errors.Is(err, ecs.ErrPoolExhausted):
			c.Stats.PoolExhausted++
			if c.reset {
				c.world.Clear()
				c.live = c.live[:0]
				c.Stats.Resets++
				if c.OnReset != nil {
					c.OnReset(c.world)
				}
			}
		case errors.Is(err, ecs.ErrWorldFull):
			c.Stats.WorldFull++
		}
		return
	}

	c.Stats.Created++
	c.live = append(c.live, id)
	c.randomise(id)
}

func (c *Churner) randomise(id ecs.EntityID) {
	w := c.world
	if t := w.Transform(id); t != nil {
		t.Position = mgl32.Vec3{c.coord(), c.coord(), c.coord()}
	}
	if p := w.Physics(id); p != nil {
		p.Velocity = mgl32.Vec3{c.coord() / 50, c.coord() / 50, c.coord() / 50}
	}
	if ai := w.AI(id); ai != nil {
		ai.PatrolPoint = mgl32.Vec3{c.coord(), 0, c.coord()}
	}
	if ctl := w.Control(id); ctl != nil {
		ctl.LinearInput = mgl32.Vec3{0, 0, 1}
	}
}

func (c *Churner) coord() float32 {
	return (c.rng.Float32()*2 - 1) * c.spread
}
