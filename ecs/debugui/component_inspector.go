package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

// ComponentInspector edits the components of one entity in place through
// reflection on the pool pointers.
type ComponentInspector struct {
	selectedEntityId ecs.EntityID
}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(w *ecs.World, selectedEntityId ecs.EntityID) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == ecs.InvalidEntity {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !w.Exists(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("%s not found", ci.selectedEntityId))
		imgui.End()
		return
	}

	mask := w.Mask(ci.selectedEntityId)
	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Components: %s", mask))
	imgui.Separator()

	for _, kind := range mask.Kinds() {
		component := w.Component(ci.selectedEntityId, kind)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(kind.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field.Name, fieldVal, field)
	}
}

// renderField draws one field and writes edits straight back into it.
// Values reached through the component pointer are addressable, so
// CanSet holds for every exported field.
func (ci *ComponentInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	if s, ok := val.Interface().(fmt.Stringer); ok && val.Kind() != reflect.Struct && val.Kind() != reflect.Uint32 {
		imgui.Text(fmt.Sprintf("%s: %s", name, s))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Array:
		ci.renderArray(name, val)

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// renderArray edits short float vectors element by element and prints
// anything longer, such as matrices and child lists.
func (ci *ComponentInspector) renderArray(name string, val reflect.Value) {
	if val.Type().Elem().Kind() != reflect.Float32 || val.Len() > 4 {
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		return
	}

	imgui.Text(fmt.Sprintf("%s:", name))
	for i := 0; i < val.Len(); i++ {
		elem := val.Index(i)
		v := float32(elem.Float())
		imgui.SameLine()
		imgui.SetNextItemWidth(80)
		if imgui.InputFloat(fmt.Sprintf("##%s%d", name, i), &v) && elem.CanSet() {
			elem.SetFloat(float64(v))
		}
	}
}
