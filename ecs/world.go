package ecs

import (
	"iter"
	"log/slog"
	"math"

	"github.com/atimics/signal-sub000/assets"
	"github.com/kamstrup/intmap"
)

// DefaultMaxEntities is the entity capacity used when a config leaves it unset.
const DefaultMaxEntities = 4096

// WorldConfig sizes a World.
type WorldConfig struct {
	// MaxEntities bounds the number of live entities.
	MaxEntities int
	// PoolCapacities bounds each component pool. Zero means MaxEntities.
	PoolCapacities [KindCount]int
	Logger         *slog.Logger
}

// DefaultWorldConfig returns a config with DefaultMaxEntities and pools sized to match.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{MaxEntities: DefaultMaxEntities}
}

// AssetLookup resolves asset names to loaded handles.
type AssetLookup interface {
	Lookup(kind assets.Kind, name string) (assets.Handle, bool)
}

// World owns the entity table and one pool per component kind.
type World struct {
	entities    []Entity
	index       *intmap.Map[EntityID, int]
	nextID      EntityID
	maxEntities int

	transforms  *Pool[Transform]
	physics     *Pool[Physics]
	collisions  *Pool[Collision]
	ais         *Pool[AI]
	renderables *Pool[Renderable]
	players     *Pool[Player]
	cameras     *Pool[Camera]
	sceneNodes  *Pool[SceneNode]
	thrusters   *Pool[Thrusters]
	controls    *Pool[Control]

	sceneEpoch uint32
	sceneStack []sceneFrame
	logger     *slog.Logger
}

// NewWorld creates an empty world sized by cfg.
func NewWorld(cfg WorldConfig) *World {
	if cfg.MaxEntities <= 0 {
		cfg.MaxEntities = DefaultMaxEntities
	}
	capOf := func(k ComponentKind) int {
		if c := cfg.PoolCapacities[k]; c > 0 {
			return c
		}
		return cfg.MaxEntities
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &World{
		entities:    make([]Entity, 0, cfg.MaxEntities),
		index:       intmap.New[EntityID, int](cfg.MaxEntities),
		nextID:      1,
		maxEntities: cfg.MaxEntities,

		transforms:  NewPool[Transform](capOf(KindTransform)),
		physics:     NewPool[Physics](capOf(KindPhysics)),
		collisions:  NewPool[Collision](capOf(KindCollision)),
		ais:         NewPool[AI](capOf(KindAI)),
		renderables: NewPool[Renderable](capOf(KindRenderable)),
		players:     NewPool[Player](capOf(KindPlayer)),
		cameras:     NewPool[Camera](capOf(KindCamera)),
		sceneNodes:  NewPool[SceneNode](capOf(KindSceneNode)),
		thrusters:   NewPool[Thrusters](capOf(KindThrusters)),
		controls:    NewPool[Control](capOf(KindControl)),

		logger: logger.With("component", "world"),
	}
}

// Create allocates a new entity with no components.
// It returns InvalidEntity when the entity table is full.
func (w *World) Create() EntityID {
	if len(w.entities) >= w.maxEntities || w.nextID == InvalidEntity {
		w.logger.Debug("create rejected", "err", ErrWorldFull, "live", len(w.entities))
		return InvalidEntity
	}

	id := w.nextID
	if w.nextID == math.MaxUint32 {
		w.nextID = InvalidEntity
	} else {
		w.nextID++
	}

	w.entities = append(w.entities, Entity{ID: id})
	w.index.Put(id, len(w.entities)-1)
	return id
}

// CreateWith allocates an entity and attaches kinds. If any attach fails the
// entity is destroyed again and the error is returned; pool slots bumped for
// the kinds attached before the failure stay used and the id is not reused.
func (w *World) CreateWith(kinds ...ComponentKind) (EntityID, error) {
	id := w.Create()
	if id == InvalidEntity {
		return InvalidEntity, ErrWorldFull
	}
	for _, kind := range kinds {
		if err := w.AddComponent(id, kind); err != nil {
			w.Destroy(id)
			return InvalidEntity, err
		}
	}
	return id, nil
}

// Destroy detaches every component of id and removes it from the table by
// swapping the last entity into its slot. It reports whether id existed.
func (w *World) Destroy(id EntityID) bool {
	pos, ok := w.index.Get(id)
	if !ok {
		return false
	}

	e := &w.entities[pos]
	for kind := ComponentKind(0); kind < KindCount; kind++ {
		if e.Mask.Has(kind) {
			w.detach(e, kind)
		}
	}

	last := len(w.entities) - 1
	if pos != last {
		w.entities[pos] = w.entities[last]
		w.index.Put(w.entities[pos].ID, pos)
	}
	w.entities[last] = Entity{}
	w.entities = w.entities[:last]
	w.index.Del(id)
	return true
}

// AddComponent attaches a default-initialised component of kind to id.
// On failure nothing is modified.
func (w *World) AddComponent(id EntityID, kind ComponentKind) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	e := w.entity(id)
	if e == nil {
		return ErrEntityNotFound
	}
	if e.Mask.Has(kind) {
		return ErrComponentExists
	}

	h, ok := w.alloc(kind)
	if !ok {
		w.logger.Debug("add component rejected", "entity", id, "kind", kind, "err", ErrPoolExhausted)
		return ErrPoolExhausted
	}

	e.Refs[kind] = h
	e.Mask |= kind.Bit()
	return nil
}

// RemoveComponent detaches kind from id. Pool storage is not reclaimed.
func (w *World) RemoveComponent(id EntityID, kind ComponentKind) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	e := w.entity(id)
	if e == nil {
		return ErrEntityNotFound
	}
	if !e.Mask.Has(kind) {
		return ErrComponentMissing
	}
	w.detach(e, kind)
	return nil
}

// HasComponent reports whether id exists and carries kind.
func (w *World) HasComponent(id EntityID, kind ComponentKind) bool {
	e := w.entity(id)
	return e != nil && e.Mask.Has(kind)
}

// Exists reports whether id is alive.
func (w *World) Exists(id EntityID) bool {
	_, ok := w.index.Get(id)
	return ok
}

// Mask returns the component mask of id, or 0 if it does not exist.
func (w *World) Mask(id EntityID) ComponentMask {
	if e := w.entity(id); e != nil {
		return e.Mask
	}
	return 0
}

// Ref returns the pool handle of id's component of kind.
func (w *World) Ref(id EntityID, kind ComponentKind) (Handle, bool) {
	e := w.entity(id)
	if e == nil || !e.Mask.Has(kind) {
		return Handle{}, false
	}
	return e.Refs[kind], true
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities)
}

// Capacity returns the maximum number of live entities.
func (w *World) Capacity() int {
	return w.maxEntities
}

// NextID returns the id the next successful Create will issue.
func (w *World) NextID() EntityID {
	return w.nextID
}

// All iterates live entity ids in table order. Destroying entities while
// iterating skips entries; use Commands for structural changes inside systems.
func (w *World) All() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for i := 0; i < len(w.entities); i++ {
			if !yield(w.entities[i].ID) {
				return
			}
		}
	}
}

// Query iterates entities whose mask contains every bit of mask.
func (w *World) Query(mask ComponentMask) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for i := 0; i < len(w.entities); i++ {
			if w.entities[i].Mask.Contains(mask) {
				if !yield(w.entities[i].ID) {
					return
				}
			}
		}
	}
}

// Count returns the number of entities matching mask.
func (w *World) Count(mask ComponentMask) int {
	n := 0
	for range w.Query(mask) {
		n++
	}
	return n
}

// Clear destroys every entity, rewinds every pool and resets ids to 1.
func (w *World) Clear() {
	for i := range w.entities {
		w.entities[i] = Entity{}
	}
	w.entities = w.entities[:0]
	w.index.Clear()
	w.nextID = 1

	w.transforms.Clear()
	w.physics.Clear()
	w.collisions.Clear()
	w.ais.Clear()
	w.renderables.Clear()
	w.players.Clear()
	w.cameras.Clear()
	w.sceneNodes.Clear()
	w.thrusters.Clear()
	w.controls.Clear()
}

// SetRenderable resolves mesh and material names and stores the handles on
// id's renderable component, attaching one if needed.
func (w *World) SetRenderable(id EntityID, lookup AssetLookup, mesh, material string) error {
	if lookup == nil {
		return ErrAssetNotFound
	}
	meshHandle, ok := lookup.Lookup(assets.KindMesh, mesh)
	if !ok {
		return ErrAssetNotFound
	}
	materialHandle, ok := lookup.Lookup(assets.KindMaterial, material)
	if !ok {
		return ErrAssetNotFound
	}

	if !w.HasComponent(id, KindRenderable) {
		if err := w.AddComponent(id, KindRenderable); err != nil {
			return err
		}
	}
	r := w.Renderable(id)
	r.Mesh = meshHandle
	r.Material = materialHandle
	return nil
}

// Transform returns id's transform, or nil.
func (w *World) Transform(id EntityID) *Transform {
	return lookup(w, id, KindTransform, w.transforms)
}

// Physics returns id's physics body, or nil.
func (w *World) Physics(id EntityID) *Physics {
	return lookup(w, id, KindPhysics, w.physics)
}

// Collision returns id's collision volume, or nil.
func (w *World) Collision(id EntityID) *Collision {
	return lookup(w, id, KindCollision, w.collisions)
}

// AI returns id's AI state, or nil.
func (w *World) AI(id EntityID) *AI {
	return lookup(w, id, KindAI, w.ais)
}

// Renderable returns id's renderable, or nil.
func (w *World) Renderable(id EntityID) *Renderable {
	return lookup(w, id, KindRenderable, w.renderables)
}

// Player returns id's player component, or nil.
func (w *World) Player(id EntityID) *Player {
	return lookup(w, id, KindPlayer, w.players)
}

// Camera returns id's camera, or nil.
func (w *World) Camera(id EntityID) *Camera {
	return lookup(w, id, KindCamera, w.cameras)
}

// SceneNode returns id's scene node, or nil.
func (w *World) SceneNode(id EntityID) *SceneNode {
	return lookup(w, id, KindSceneNode, w.sceneNodes)
}

// Thrusters returns id's thrusters, or nil.
func (w *World) Thrusters(id EntityID) *Thrusters {
	return lookup(w, id, KindThrusters, w.thrusters)
}

// Control returns id's control authority, or nil.
func (w *World) Control(id EntityID) *Control {
	return lookup(w, id, KindControl, w.controls)
}

// Component returns id's component of kind as a pointer to its concrete type.
func (w *World) Component(id EntityID, kind ComponentKind) any {
	switch kind {
	case KindTransform:
		return nilIfNil(w.Transform(id))
	case KindPhysics:
		return nilIfNil(w.Physics(id))
	case KindCollision:
		return nilIfNil(w.Collision(id))
	case KindAI:
		return nilIfNil(w.AI(id))
	case KindRenderable:
		return nilIfNil(w.Renderable(id))
	case KindPlayer:
		return nilIfNil(w.Player(id))
	case KindCamera:
		return nilIfNil(w.Camera(id))
	case KindSceneNode:
		return nilIfNil(w.SceneNode(id))
	case KindThrusters:
		return nilIfNil(w.Thrusters(id))
	case KindControl:
		return nilIfNil(w.Control(id))
	default:
		return nil
	}
}

// PoolUsage reports allocation state of kind's pool.
func (w *World) PoolUsage(kind ComponentKind) PoolUsage {
	switch kind {
	case KindTransform:
		return usageOf(kind, w.transforms)
	case KindPhysics:
		return usageOf(kind, w.physics)
	case KindCollision:
		return usageOf(kind, w.collisions)
	case KindAI:
		return usageOf(kind, w.ais)
	case KindRenderable:
		return usageOf(kind, w.renderables)
	case KindPlayer:
		return usageOf(kind, w.players)
	case KindCamera:
		return usageOf(kind, w.cameras)
	case KindSceneNode:
		return usageOf(kind, w.sceneNodes)
	case KindThrusters:
		return usageOf(kind, w.thrusters)
	case KindControl:
		return usageOf(kind, w.controls)
	default:
		return PoolUsage{Kind: kind}
	}
}

func (w *World) entity(id EntityID) *Entity {
	pos, ok := w.index.Get(id)
	if !ok {
		return nil
	}
	return &w.entities[pos]
}

// alloc takes a default-initialised slot from kind's pool.
func (w *World) alloc(kind ComponentKind) (Handle, bool) {
	switch kind {
	case KindTransform:
		return w.transforms.Alloc(defaultTransform())
	case KindPhysics:
		return w.physics.Alloc(defaultPhysics())
	case KindCollision:
		return w.collisions.Alloc(defaultCollision())
	case KindAI:
		return w.ais.Alloc(defaultAI())
	case KindRenderable:
		return w.renderables.Alloc(defaultRenderable())
	case KindPlayer:
		return w.players.Alloc(defaultPlayer())
	case KindCamera:
		return w.cameras.Alloc(defaultCamera())
	case KindSceneNode:
		return w.sceneNodes.Alloc(defaultSceneNode())
	case KindThrusters:
		return w.thrusters.Alloc(defaultThrusters())
	case KindControl:
		return w.controls.Alloc(defaultControl())
	default:
		return Handle{}, false
	}
}

// detach clears kind from e and invalidates its pool handle.
func (w *World) detach(e *Entity, kind ComponentKind) {
	h := e.Refs[kind]
	switch kind {
	case KindTransform:
		w.transforms.Release(h)
	case KindPhysics:
		w.physics.Release(h)
	case KindCollision:
		w.collisions.Release(h)
	case KindAI:
		w.ais.Release(h)
	case KindRenderable:
		w.renderables.Release(h)
	case KindPlayer:
		w.players.Release(h)
	case KindCamera:
		w.cameras.Release(h)
	case KindSceneNode:
		w.unlinkNode(e.ID)
		w.sceneNodes.Release(h)
	case KindThrusters:
		w.thrusters.Release(h)
	case KindControl:
		w.controls.Release(h)
	}
	e.Refs[kind] = Handle{}
	e.Mask &^= kind.Bit()
}

func lookup[T any](w *World, id EntityID, kind ComponentKind, pool *Pool[T]) *T {
	e := w.entity(id)
	if e == nil || !e.Mask.Has(kind) {
		return nil
	}
	return pool.Get(e.Refs[kind])
}

// nilIfNil keeps a typed nil pointer from becoming a non-nil interface.
func nilIfNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

func usageOf[T any](kind ComponentKind, pool *Pool[T]) PoolUsage {
	return PoolUsage{
		Kind:     kind,
		Capacity: pool.Cap(),
		Used:     pool.Used(),
		Live:     pool.Live(),
	}
}
