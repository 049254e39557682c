package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsArray   bool
	IsSlice   bool
	IsMap     bool
}

// ReflectionCache memoises the exported fields of component types so the
// inspector does not walk struct metadata every frame.
type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	fields := fieldsOf(t)
	rc.fieldCache[t] = fields
	return fields
}

// Len returns the number of cached types.
func (rc *ReflectionCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.fieldCache)
}

func fieldsOf(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldType := field.Type
		isPointer := fieldType.Kind() == reflect.Ptr
		if isPointer {
			fieldType = fieldType.Elem()
		}

		fields = append(fields, FieldInfo{
			Name:      field.Name,
			Type:      fieldType,
			Index:     i,
			IsPointer: isPointer,
			IsStruct:  fieldType.Kind() == reflect.Struct,
			IsArray:   fieldType.Kind() == reflect.Array,
			IsSlice:   fieldType.Kind() == reflect.Slice,
			IsMap:     fieldType.Kind() == reflect.Map,
		})
	}
	return fields
}

var globalReflectionCache = NewReflectionCache()
