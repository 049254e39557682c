package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// arriveRadius is how close a patrolling entity gets before idling.
	arriveRadius = 1.0
	// steerForce is applied to bodies that have no Control to steer through.
	steerForce = 10.0
)

// aiClock tracks when the AI pass last ran so decision timers advance by
// simulated time rather than by the tick delta.
type aiClock struct {
	last float64
}

// AI advances each agent's decision timer and, when it expires, picks a
// state against the nearest player in sensor range. Between decisions the
// agent keeps steering according to its current state.
func AI(w *ecs.World, ctx *ecs.Context, dt float32) {
	clock := ecs.ResourceOrInit[aiClock](ctx.Resources, "ai.clock")
	elapsed := float32(ctx.Time - clock.last)
	clock.last = ctx.Time
	if elapsed <= 0 {
		elapsed = dt
	}

	for id := range w.Query(ecs.MaskOf(ecs.KindAI, ecs.KindTransform)) {
		ai := w.AI(id)
		pos := w.Transform(id).Position

		ai.DecisionTimer += elapsed
		if ai.DecisionTimer >= ai.DecisionInterval {
			ai.DecisionTimer = 0
			decide(w, ctx, id, ai, pos)
		}

		steer(w, id, ai, pos)
	}
}

func decide(w *ecs.World, ctx *ecs.Context, id ecs.EntityID, ai *ecs.AI, pos mgl32.Vec3) {
	prev := ai.State
	target, dist := nearestPlayer(w, id, pos)
	in := target != ecs.InvalidEntity && dist <= ai.SensorRange

	switch {
	case in && healthOf(w, id) < ai.FleeHealth:
		ai.State = ecs.AIFlee
	case in:
		ai.State = ecs.AIChase
	case ai.PatrolPoint.Sub(pos).Len() > arriveRadius:
		ai.State = ecs.AIPatrol
	default:
		ai.State = ecs.AIIdle
	}
	if in {
		ai.Target = target
	} else {
		ai.Target = ecs.InvalidEntity
	}

	if ai.State != prev {
		ctx.Logger.Debug("ai state change", "entity", id, "from", prev, "to", ai.State, "target", ai.Target)
	}
}

// nearestPlayer returns the closest other player entity and its distance.
func nearestPlayer(w *ecs.World, self ecs.EntityID, pos mgl32.Vec3) (ecs.EntityID, float32) {
	best := ecs.InvalidEntity
	var bestDist float32
	for id := range w.Query(ecs.MaskOf(ecs.KindPlayer, ecs.KindTransform)) {
		if id == self {
			continue
		}
		d := w.Transform(id).Position.Sub(pos).Len()
		if best == ecs.InvalidEntity || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, bestDist
}

// healthOf returns the Player health of id, or full health for non-players.
func healthOf(w *ecs.World, id ecs.EntityID) float32 {
	if p := w.Player(id); p != nil {
		return p.Health
	}
	return 100
}

func steer(w *ecs.World, id ecs.EntityID, ai *ecs.AI, pos mgl32.Vec3) {
	var dir mgl32.Vec3
	switch ai.State {
	case ecs.AIChase, ecs.AIFlee:
		if t := w.Transform(ai.Target); t != nil {
			dir = t.Position.Sub(pos)
			if ai.State == ecs.AIFlee {
				dir = dir.Mul(-1)
			}
		}
	case ecs.AIPatrol:
		if d := ai.PatrolPoint.Sub(pos); d.Len() > arriveRadius {
			dir = d
		}
	}
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}

	if c := w.Control(id); c != nil {
		c.LinearInput = rotationOf(w, id).Conjugate().Rotate(dir)
		return
	}
	if ph := w.Physics(id); ph != nil && dir.Len() > 0 {
		ph.AddForce(dir.Mul(steerForce))
	}
}
