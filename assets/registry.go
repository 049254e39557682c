// Package assets keeps a name-keyed registry of loaded asset handles.
// Parsing and GPU upload happen elsewhere; the simulation core only ever
// sees the opaque Handle values stored here.
package assets

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Kind identifies the asset category a handle belongs to.
type Kind uint8

const (
	KindMesh Kind = iota
	KindMaterial
	KindTexture
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindMaterial:
		return "material"
	case KindTexture:
		return "texture"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Handle is an opaque reference to a loaded asset.
type Handle uuid.UUID

// NilHandle is the zero handle; it never refers to a loaded asset.
var NilHandle Handle

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h == NilHandle
}

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// handleNamespace seeds name-derived handles so the same asset name maps to
// the same handle across runs.
var handleNamespace = uuid.MustParse("6f1c8e5a-6d2b-4b4e-9a53-51a1f0c6e2d7")

// HandleFor derives the stable handle for an asset name.
func HandleFor(kind Kind, name string) Handle {
	return Handle(uuid.NewSHA1(handleNamespace, []byte(kind.String()+"/"+name)))
}

// Entry describes a registered asset.
type Entry struct {
	Kind   Kind
	Name   string
	Handle Handle
	Loaded bool
}

// Registry maps asset names to handles, one namespace per Kind.
type Registry struct {
	byName   [kindCount]map[string]*Entry
	byHandle map[Handle]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{
		byHandle: make(map[Handle]*Entry),
	}
	for i := range r.byName {
		r.byName[i] = make(map[string]*Entry)
	}
	return r
}

// Register records an asset as loaded and returns its handle. Registering the
// same name twice returns the existing handle.
func (r *Registry) Register(kind Kind, name string) (Handle, error) {
	if kind >= kindCount {
		return NilHandle, fmt.Errorf("assets: unknown kind %d", kind)
	}
	if name == "" {
		return NilHandle, fmt.Errorf("assets: empty %s name", kind)
	}

	if entry, ok := r.byName[kind][name]; ok {
		entry.Loaded = true
		return entry.Handle, nil
	}

	entry := &Entry{
		Kind:   kind,
		Name:   name,
		Handle: HandleFor(kind, name),
		Loaded: true,
	}
	r.byName[kind][name] = entry
	r.byHandle[entry.Handle] = entry
	return entry.Handle, nil
}

// Lookup resolves a name to a loaded handle.
func (r *Registry) Lookup(kind Kind, name string) (Handle, bool) {
	if kind >= kindCount {
		return NilHandle, false
	}
	entry, ok := r.byName[kind][name]
	if !ok || !entry.Loaded {
		return NilHandle, false
	}
	return entry.Handle, true
}

// Resolve returns the entry behind a handle.
func (r *Registry) Resolve(h Handle) (Entry, bool) {
	entry, ok := r.byHandle[h]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Unload marks an asset as no longer available. The handle stays reserved so
// a later Register of the same name yields the same handle.
func (r *Registry) Unload(kind Kind, name string) bool {
	if kind >= kindCount {
		return false
	}
	entry, ok := r.byName[kind][name]
	if !ok || !entry.Loaded {
		return false
	}
	entry.Loaded = false
	return true
}

// Names lists the loaded asset names of a kind in sorted order.
func (r *Registry) Names(kind Kind) []string {
	if kind >= kindCount {
		return nil
	}
	names := make([]string, 0, len(r.byName[kind]))
	for name, entry := range r.byName[kind] {
		if entry.Loaded {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded assets across all kinds.
func (r *Registry) Len() int {
	n := 0
	for _, entry := range r.byHandle {
		if entry.Loaded {
			n++
		}
	}
	return n
}
