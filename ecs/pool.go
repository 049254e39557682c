package ecs

const (
	poolBlockSize = 64
)

// Pool is fixed-capacity storage for one component type.
//
// Slots are handed out by a bump allocator and are never reused until Clear.
// Release only invalidates the slot's generation so outstanding handles stop
// resolving; the slot itself stays consumed.
type Pool[T any] struct {
	blocks      [][poolBlockSize]T
	generations [][poolBlockSize]uint32
	live        [][poolBlockSize]bool
	capacity    int
	next        int
	released    int
}

// NewPool creates a pool that can allocate at most capacity slots.
// Blocks are allocated up front so component pointers stay stable.
func NewPool[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	numBlocks := (capacity + poolBlockSize - 1) / poolBlockSize
	return &Pool[T]{
		blocks:      make([][poolBlockSize]T, numBlocks),
		generations: make([][poolBlockSize]uint32, numBlocks),
		live:        make([][poolBlockSize]bool, numBlocks),
		capacity:    capacity,
	}
}

// Alloc takes the next slot, stores item in it and returns its handle.
// It reports false when the pool is exhausted.
func (p *Pool[T]) Alloc(item T) (Handle, bool) {
	if p.next >= p.capacity {
		return Handle{}, false
	}

	index := p.next
	p.next++

	blockIdx := index / poolBlockSize
	slotIdx := index % poolBlockSize

	p.generations[blockIdx][slotIdx]++
	p.blocks[blockIdx][slotIdx] = item
	p.live[blockIdx][slotIdx] = true

	return Handle{
		Index:      uint32(index),
		Generation: p.generations[blockIdx][slotIdx],
	}, true
}

// Get returns a pointer to the component behind h, or nil if h is stale.
func (p *Pool[T]) Get(h Handle) *T {
	if !p.Valid(h) {
		return nil
	}
	index := int(h.Index)
	return &p.blocks[index/poolBlockSize][index%poolBlockSize]
}

// Valid reports whether h still refers to a live slot.
func (p *Pool[T]) Valid(h Handle) bool {
	if h.IsZero() {
		return false
	}
	index := int(h.Index)
	if index >= p.next {
		return false
	}
	blockIdx := index / poolBlockSize
	slotIdx := index % poolBlockSize
	return p.live[blockIdx][slotIdx] && p.generations[blockIdx][slotIdx] == h.Generation
}

// Release invalidates h. The slot is zeroed but not returned to the allocator.
func (p *Pool[T]) Release(h Handle) bool {
	if !p.Valid(h) {
		return false
	}
	index := int(h.Index)
	blockIdx := index / poolBlockSize
	slotIdx := index % poolBlockSize

	var zero T
	p.blocks[blockIdx][slotIdx] = zero
	p.live[blockIdx][slotIdx] = false
	p.generations[blockIdx][slotIdx]++
	p.released++
	return true
}

// Clear rewinds the allocator. Every outstanding handle becomes stale.
func (p *Pool[T]) Clear() {
	var zero T
	for i := 0; i < p.next; i++ {
		blockIdx := i / poolBlockSize
		slotIdx := i % poolBlockSize
		if p.live[blockIdx][slotIdx] {
			p.generations[blockIdx][slotIdx]++
		}
		p.blocks[blockIdx][slotIdx] = zero
		p.live[blockIdx][slotIdx] = false
	}
	p.next = 0
	p.released = 0
}

// Cap returns the maximum number of slots.
func (p *Pool[T]) Cap() int {
	return p.capacity
}

// Used returns the number of slots consumed by the allocator, live or released.
func (p *Pool[T]) Used() int {
	return p.next
}

// Live returns the number of slots currently referenced.
func (p *Pool[T]) Live() int {
	return p.next - p.released
}

// Remaining returns how many more allocations will succeed.
func (p *Pool[T]) Remaining() int {
	return p.capacity - p.next
}

// PoolUsage summarises a pool for diagnostics.
type PoolUsage struct {
	Kind     ComponentKind
	Capacity int
	Used     int
	Live     int
}

// Leaked returns the slots consumed by components that were since removed.
func (u PoolUsage) Leaked() int {
	return u.Used - u.Live
}

// Fill returns Used/Capacity, or 0 for an empty pool.
func (u PoolUsage) Fill() float64 {
	if u.Capacity == 0 {
		return 0
	}
	return float64(u.Used) / float64(u.Capacity)
}
