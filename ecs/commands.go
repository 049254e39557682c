package ecs

// Commands buffers structural world changes requested while systems iterate.
// The scheduler flushes the buffer after every tick.
type Commands struct {
	creates  []createCommand
	destroys []EntityID
	adds     []componentCommand
	removes  []componentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return newCommands()
}

type deferCommand struct {
	fn func()
}

type createCommand struct {
	kinds []ComponentKind
	init  func(w *World, id EntityID)
}

type componentCommand struct {
	entity EntityID
	kind   ComponentKind
}

// Defer queues a function to run after all structural changes.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Create queues an entity creation with the given kinds. init, if non-nil,
// runs once the entity and its components exist.
func (c *Commands) Create(init func(w *World, id EntityID), kinds ...ComponentKind) {
	c.creates = append(c.creates, createCommand{kinds: kinds, init: init})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityID) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component attach.
func (c *Commands) AddComponent(entity EntityID, kind ComponentKind) {
	c.adds = append(c.adds, componentCommand{entity: entity, kind: kind})
}

// RemoveComponent queues a component detach.
func (c *Commands) RemoveComponent(entity EntityID, kind ComponentKind) {
	c.removes = append(c.removes, componentCommand{entity: entity, kind: kind})
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued operations to world in the order destroys, removes,
// adds, creates, defers, then resets the buffer. Operations on entities
// destroyed in the same flush are dropped. It returns the number of
// operations that failed. Commands queued by init or defer callbacks during
// the flush are kept for the next one.
func (c *Commands) Flush(world *World) int {
	creates, destroys, adds, removes, defers := c.creates, c.destroys, c.adds, c.removes, c.defers
	c.creates, c.destroys, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil

	failed := 0
	destroyed := make(map[EntityID]bool, len(destroys))

	for _, id := range destroys {
		if destroyed[id] {
			continue
		}
		if !world.Destroy(id) {
			failed++
		}
		destroyed[id] = true
	}

	for _, cmd := range removes {
		if destroyed[cmd.entity] {
			continue
		}
		if err := world.RemoveComponent(cmd.entity, cmd.kind); err != nil {
			failed++
		}
	}

	for _, cmd := range adds {
		if destroyed[cmd.entity] {
			continue
		}
		if err := world.AddComponent(cmd.entity, cmd.kind); err != nil {
			failed++
		}
	}

	for _, cmd := range creates {
		id, err := world.CreateWith(cmd.kinds...)
		if err != nil {
			failed++
			continue
		}
		if cmd.init != nil {
			cmd.init(world, id)
		}
	}

	for _, df := range defers {
		df.fn()
	}

	return failed
}
