package ecs

import "errors"

var (
	// ErrWorldFull is returned when the entity table has no free slot.
	ErrWorldFull = errors.New("ecs: entity capacity exhausted")
	// ErrPoolExhausted is returned when a component pool has handed out every slot.
	ErrPoolExhausted = errors.New("ecs: component pool exhausted")
	// ErrEntityNotFound signals an operation on an id that is not alive.
	ErrEntityNotFound = errors.New("ecs: entity not found")
	// ErrComponentExists is returned when adding a kind the entity already has.
	ErrComponentExists = errors.New("ecs: component already attached")
	// ErrComponentMissing is returned when removing a kind the entity lacks.
	ErrComponentMissing = errors.New("ecs: component not attached")
	// ErrInvalidKind indicates a component kind outside the known set.
	ErrInvalidKind = errors.New("ecs: invalid component kind")
	// ErrAssetNotFound indicates a name that the asset lookup could not resolve.
	ErrAssetNotFound = errors.New("ecs: asset not found")

	// ErrNotSceneNode is returned when a scene graph operand has no scene node.
	ErrNotSceneNode = errors.New("ecs: entity has no scene node")
	// ErrSelfParent is returned when an entity is made its own child.
	ErrSelfParent = errors.New("ecs: entity cannot parent itself")
	// ErrAlreadyParented is returned when the child already has a parent.
	ErrAlreadyParented = errors.New("ecs: child already has a parent")
	// ErrChildrenFull is returned when the parent's children list is at capacity.
	ErrChildrenFull = errors.New("ecs: scene node children full")
	// ErrParentMismatch is returned when the named parent is not the child's parent.
	ErrParentMismatch = errors.New("ecs: child is not attached to parent")
	// ErrCycle is returned when a link would make a node its own ancestor.
	ErrCycle = errors.New("ecs: scene graph cycle")
	// ErrSceneTooDeep is returned when a link would exceed MaxSceneDepth.
	ErrSceneTooDeep = errors.New("ecs: scene graph too deep")

	// ErrInvalidSystem indicates a system type outside the scheduler table.
	ErrInvalidSystem = errors.New("ecs: invalid system type")
	// ErrInvalidFrequency indicates a non-positive update frequency.
	ErrInvalidFrequency = errors.New("ecs: frequency must be positive")
)
