package ecs

import (
	"fmt"
	"math/bits"
	"strings"
)

// EntityID is a monotonically increasing entity identifier. Zero is never issued.
type EntityID uint32

// InvalidEntity is the reserved "no entity" identifier.
const InvalidEntity EntityID = 0

// Valid reports whether id could refer to an entity.
func (id EntityID) Valid() bool {
	return id != InvalidEntity
}

func (id EntityID) String() string {
	if id == InvalidEntity {
		return "Entity(invalid)"
	}
	return fmt.Sprintf("Entity(%d)", uint32(id))
}

// Handle is a generation-checked reference into a component pool.
// A handle goes stale when its slot is released or the pool is cleared.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

// ComponentMask records which component kinds an entity carries, one bit per kind.
type ComponentMask uint32

// MaskOf builds a mask with the bits for the given kinds set.
func MaskOf(kinds ...ComponentKind) ComponentMask {
	var m ComponentMask
	for _, k := range kinds {
		if k.Valid() {
			m |= k.Bit()
		}
	}
	return m
}

// Has reports whether the bit for kind is set.
func (m ComponentMask) Has(kind ComponentKind) bool {
	return kind.Valid() && m&kind.Bit() != 0
}

// Contains reports whether every bit in other is also set in m.
func (m ComponentMask) Contains(other ComponentMask) bool {
	return m&other == other
}

// Count returns the number of kinds in the mask.
func (m ComponentMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Kinds returns the kinds in the mask in enumeration order.
func (m ComponentMask) Kinds() []ComponentKind {
	kinds := make([]ComponentKind, 0, m.Count())
	for k := ComponentKind(0); k < KindCount; k++ {
		if m.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (m ComponentMask) String() string {
	if m == 0 {
		return "{}"
	}
	names := make([]string, 0, m.Count())
	for _, k := range m.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Entity is a row in the world's dense entity table.
// Refs[k] is meaningful only while Mask has the bit for k.
type Entity struct {
	ID   EntityID
	Mask ComponentMask
	Refs [KindCount]Handle
}
