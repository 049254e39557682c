package ecs

import "sort"

// Resources holds named values shared between systems, such as frame
// metrics or collision contacts. It is not safe for concurrent use.
type Resources struct {
	values map[string]any
}

// NewResources creates an empty container.
func NewResources() *Resources {
	return &Resources{values: make(map[string]any)}
}

// Get returns the value stored under name.
func (r *Resources) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set stores value under name, replacing any previous value.
func (r *Resources) Set(name string, value any) {
	r.values[name] = value
}

// Delete removes name.
func (r *Resources) Delete(name string) {
	delete(r.values, name)
}

// Names returns the stored names in sorted order.
func (r *Resources) Names() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource returns the *T stored under name. It reports false when name is
// missing or holds a different type.
func Resource[T any](r *Resources, name string) (*T, bool) {
	v, ok := r.values[name]
	if !ok {
		return nil, false
	}
	ptr, ok := v.(*T)
	return ptr, ok
}

// ResourceOrInit returns the *T stored under name, storing a pointer to a
// zero T first if name is missing or holds another type.
func ResourceOrInit[T any](r *Resources, name string) *T {
	if ptr, ok := Resource[T](r, name); ok {
		return ptr
	}
	ptr := new(T)
	r.values[name] = ptr
	return ptr
}
