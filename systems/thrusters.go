package systems

import "github.com/atimics/signal-sub000/ecs"

// Thrusters converts thrust commands into forces. Linear force is rotated
// into world space; torque stays in body space.
func Thrusters(w *ecs.World, ctx *ecs.Context, dt float32) {
	for id := range w.Query(ecs.MaskOf(ecs.KindThrusters, ecs.KindPhysics)) {
		th := w.Thrusters(id)
		if !th.Enabled {
			continue
		}
		ph := w.Physics(id)

		local := mulElem(th.CurrentLinearThrust, th.MaxLinearForce).Mul(th.Efficiency)
		ph.AddForce(rotationOf(w, id).Rotate(local))
		ph.AddTorque(mulElem(th.CurrentAngularThrust, th.MaxAngularTorque).Mul(th.Efficiency))
	}
}
