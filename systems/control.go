package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// assistDeadzone is the input magnitude below which flight assist takes over an axis.
const assistDeadzone = 1e-3

// Control turns control input into normalised thruster commands. Inputs are
// scaled by sensitivity and boost, then clamped to [-1, 1] per axis. With
// flight assist on, idle axes counter the current body-space velocity.
func Control(w *ecs.World, ctx *ecs.Context, dt float32) {
	for id := range w.Query(ecs.MaskOf(ecs.KindControl, ecs.KindThrusters)) {
		c := w.Control(id)
		th := w.Thrusters(id)

		if !inputEnabled(w, c) {
			th.CurrentLinearThrust = mgl32.Vec3{}
			th.CurrentAngularThrust = mgl32.Vec3{}
			continue
		}

		boost := 1 + clamp(c.BoostInput, 0, 1)
		linear := clampVec(c.LinearInput.Mul(c.Sensitivity*boost), -1, 1)
		angular := clampVec(c.AngularInput.Mul(c.Sensitivity), -1, 1)

		if ph := w.Physics(id); c.FlightAssist && ph != nil {
			localVel := rotationOf(w, id).Conjugate().Rotate(ph.Velocity)
			for axis := range 3 {
				if abs(c.LinearInput[axis]) < assistDeadzone {
					linear[axis] = clamp(-localVel[axis]*c.AssistDamping, -1, 1)
				}
				if abs(c.AngularInput[axis]) < assistDeadzone {
					angular[axis] = clamp(-ph.AngularVelocity[axis]*c.AssistDamping, -1, 1)
				}
			}
		}

		th.CurrentLinearThrust = linear
		th.CurrentAngularThrust = angular
	}
}

// inputEnabled reports whether the controlling player, if any, accepts input.
func inputEnabled(w *ecs.World, c *ecs.Control) bool {
	if c.ControlledBy == ecs.InvalidEntity {
		return true
	}
	if p := w.Player(c.ControlledBy); p != nil {
		return p.InputEnabled
	}
	return true
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
