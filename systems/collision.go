package systems

import (
	"github.com/atimics/signal-sub000/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// ContactsResource names the resource holding the last collision pass.
const ContactsResource = "collision.contacts"

// Contact is one overlapping pair. Normal points from A towards B.
type Contact struct {
	A, B    ecs.EntityID
	Normal  mgl32.Vec3
	Depth   float32
	Trigger bool
}

// Contacts is the list of overlaps found by the most recent collision pass.
type Contacts struct {
	List []Contact
}

type collider struct {
	id  ecs.EntityID
	pos mgl32.Vec3
	col *ecs.Collision
}

// Collision tests every pair of colliders for overlap. Pairs interact only
// when each one's layer is in the other's mask. Solid contacts between
// dynamic bodies are separated along the contact normal; trigger contacts
// are only reported.
func Collision(w *ecs.World, ctx *ecs.Context, dt float32) {
	contacts := ecs.ResourceOrInit[Contacts](ctx.Resources, ContactsResource)
	contacts.List = contacts.List[:0]

	var colliders []collider
	for id := range w.Query(ecs.MaskOf(ecs.KindTransform, ecs.KindCollision)) {
		col := w.Collision(id)
		col.Contacts = 0
		colliders = append(colliders, collider{id: id, pos: w.Transform(id).Position, col: col})
	}

	for i := range colliders {
		a := &colliders[i]
		for j := i + 1; j < len(colliders); j++ {
			b := &colliders[j]
			if a.col.LayerMask&b.col.Layer == 0 || b.col.LayerMask&a.col.Layer == 0 {
				continue
			}
			normal, depth, ok := overlap(a, b)
			if !ok {
				continue
			}

			c := Contact{A: a.id, B: b.id, Normal: normal, Depth: depth, Trigger: a.col.Trigger || b.col.Trigger}
			contacts.List = append(contacts.List, c)
			for _, hit := range [2]*ecs.Collision{a.col, b.col} {
				hit.Contacts++
				hit.LastCollisionTime = ctx.Time
			}
			if !c.Trigger {
				separate(w, c)
			}
		}
	}
}

func overlap(a, b *collider) (mgl32.Vec3, float32, bool) {
	switch {
	case a.col.Shape == ecs.ShapeSphere && b.col.Shape == ecs.ShapeSphere:
		return sphereSphere(a.pos, a.col.Radius, b.pos, b.col.Radius)
	case a.col.Shape == ecs.ShapeBox && b.col.Shape == ecs.ShapeBox:
		return boxBox(a.pos, a.col.HalfExtents, b.pos, b.col.HalfExtents)
	case a.col.Shape == ecs.ShapeSphere:
		return sphereBox(a.pos, a.col.Radius, b.pos, b.col.HalfExtents)
	default:
		n, d, ok := sphereBox(b.pos, b.col.Radius, a.pos, a.col.HalfExtents)
		return n.Mul(-1), d, ok
	}
}

func sphereSphere(pa mgl32.Vec3, ra float32, pb mgl32.Vec3, rb float32) (mgl32.Vec3, float32, bool) {
	delta := pb.Sub(pa)
	dist := delta.Len()
	if dist >= ra+rb {
		return mgl32.Vec3{}, 0, false
	}
	normal := mgl32.Vec3{0, 1, 0}
	if dist > 0 {
		normal = delta.Mul(1 / dist)
	}
	return normal, ra + rb - dist, true
}

func boxBox(pa, ha, pb, hb mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	delta := pb.Sub(pa)
	var normal mgl32.Vec3
	depth := float32(-1)
	for axis := range 3 {
		pen := ha[axis] + hb[axis] - abs(delta[axis])
		if pen <= 0 {
			return mgl32.Vec3{}, 0, false
		}
		if depth < 0 || pen < depth {
			depth = pen
			normal = mgl32.Vec3{}
			normal[axis] = 1
			if delta[axis] < 0 {
				normal[axis] = -1
			}
		}
	}
	return normal, depth, true
}

// sphereBox tests a sphere against an axis-aligned box. The normal points
// from the sphere towards the box.
func sphereBox(ps mgl32.Vec3, r float32, pb, hb mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	closest := mgl32.Vec3{
		clamp(ps[0], pb[0]-hb[0], pb[0]+hb[0]),
		clamp(ps[1], pb[1]-hb[1], pb[1]+hb[1]),
		clamp(ps[2], pb[2]-hb[2], pb[2]+hb[2]),
	}
	delta := closest.Sub(ps)
	dist := delta.Len()
	if dist >= r {
		return mgl32.Vec3{}, 0, false
	}
	if dist == 0 {
		// Centre inside the box.
		n, d, _ := boxBox(ps, mgl32.Vec3{r, r, r}, pb, hb)
		return n, d, true
	}
	return delta.Mul(1 / dist), r - dist, true
}

// separate pushes dynamic bodies apart and removes their approach velocity.
func separate(w *ecs.World, c Contact) {
	pa, pb := w.Physics(c.A), w.Physics(c.B)
	movable := func(p *ecs.Physics) bool { return p != nil && !p.Kinematic }

	var share [2]float32
	switch {
	case movable(pa) && movable(pb):
		share = [2]float32{0.5, 0.5}
	case movable(pa):
		share = [2]float32{1, 0}
	case movable(pb):
		share = [2]float32{0, 1}
	default:
		return
	}

	if share[0] > 0 {
		ta := w.Transform(c.A)
		ta.Position = ta.Position.Sub(c.Normal.Mul(c.Depth * share[0]))
		ta.Dirty = true
		if v := pa.Velocity.Dot(c.Normal); v > 0 {
			pa.Velocity = pa.Velocity.Sub(c.Normal.Mul(v))
		}
	}
	if share[1] > 0 {
		tb := w.Transform(c.B)
		tb.Position = tb.Position.Add(c.Normal.Mul(c.Depth * share[1]))
		tb.Dirty = true
		if v := pb.Velocity.Dot(c.Normal); v < 0 {
			pb.Velocity = pb.Velocity.Sub(c.Normal.Mul(v))
		}
	}
}
