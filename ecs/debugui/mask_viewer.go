package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

// MaskInfo groups the entities sharing one component mask.
type MaskInfo struct {
	Mask           ecs.ComponentMask
	EntityCount    int
	ComponentCount int
}

type MaskViewerCache struct {
	masks         []MaskInfo
	sortColumn    int
	sortAscending bool
}

// MaskViewer shows how entities spread across component masks and how full
// each component pool is. Selecting a pool row filters the entity browser
// by that kind.
type MaskViewer struct {
	cache        *MaskViewerCache
	selectedKind *ecs.ComponentKind
}

func NewMaskViewer() *MaskViewer {
	return &MaskViewer{
		cache: &MaskViewerCache{
			sortColumn:    2,
			sortAscending: false,
		},
	}
}

func (mv *MaskViewer) Render(w *ecs.World) (ecs.ComponentKind, bool) {
	if !imgui.BeginV("Masks & Pools", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return 0, false
	}

	mv.Rebuild(w)

	maxEntityCount := 0
	for _, m := range mv.cache.masks {
		maxEntityCount = max(maxEntityCount, m.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("MaskTable", 3, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			mv.cache.sortColumn = int(spec.ColumnIndex())
			mv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			mv.sortMasks()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, m := range mv.cache.masks {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(m.Mask.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", m.ComponentCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", m.EntityCount))
			if maxEntityCount > 0 {
				drawBar(float32(m.EntityCount)/float32(maxEntityCount), imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
			}
		}

		imgui.EndTable()
	}

	imgui.Separator()

	clicked, ok := mv.renderPools(w)
	imgui.End()
	return clicked, ok
}

func (mv *MaskViewer) renderPools(w *ecs.World) (ecs.ComponentKind, bool) {
	var clicked ecs.ComponentKind
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("PoolTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Pool")
		imgui.TableSetupColumn("Live")
		imgui.TableSetupColumn("Used")
		imgui.TableSetupColumn("Leaked")
		imgui.TableSetupColumn("Capacity")
		imgui.TableHeadersRow()

		for kind := ecs.ComponentKind(0); kind < ecs.KindCount; kind++ {
			u := w.PoolUsage(kind)
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := mv.selectedKind != nil && *mv.selectedKind == kind
			if imgui.SelectableBoolV(kind.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				k := kind
				mv.selectedKind = &k
				clicked, ok = kind, true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", u.Live))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", u.Used))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", u.Leaked()))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", u.Capacity))

			color := imgui.NewVec4(0.2, 0.8, 0.3, 0.6)
			if u.Fill() > 0.9 {
				color = imgui.NewVec4(0.9, 0.2, 0.2, 0.7)
			}
			drawBar(float32(u.Fill()), color)
		}

		imgui.EndTable()
	}
	return clicked, ok
}

func drawBar(fraction float32, rgba imgui.Vec4) {
	imgui.SameLine()
	drawList := imgui.WindowDrawList()
	pos := imgui.CursorScreenPos()
	drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+fraction*80.0, pos.Y+10), imgui.ColorU32Vec4(rgba))
}

// Rebuild regroups every live entity by mask.
func (mv *MaskViewer) Rebuild(w *ecs.World) {
	counts := make(map[ecs.ComponentMask]int)
	for id := range w.All() {
		counts[w.Mask(id)]++
	}

	mv.cache.masks = mv.cache.masks[:0]
	for mask, n := range counts {
		mv.cache.masks = append(mv.cache.masks, MaskInfo{
			Mask:           mask,
			EntityCount:    n,
			ComponentCount: mask.Count(),
		})
	}
	mv.sortMasks()
}

// Masks returns the groups from the last Rebuild.
func (mv *MaskViewer) Masks() []MaskInfo {
	return mv.cache.masks
}

func (mv *MaskViewer) sortMasks() {
	key := func(m MaskInfo) int {
		switch mv.cache.sortColumn {
		case 0:
			return int(m.Mask)
		case 1:
			return m.ComponentCount
		default:
			return m.EntityCount
		}
	}

	sort.Slice(mv.cache.masks, func(i, j int) bool {
		a, b := mv.cache.masks[i], mv.cache.masks[j]
		ka, kb := key(a), key(b)
		if ka == kb {
			return a.Mask < b.Mask
		}
		if !mv.cache.sortAscending {
			return ka > kb
		}
		return ka < kb
	})
}
