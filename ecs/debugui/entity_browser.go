package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/atimics/signal-sub000/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityID
	Mask           ecs.ComponentMask
	ComponentTypes []string
	ComponentCount int
	SceneName      string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastLen       int
	lastNextID    ecs.EntityID
	sortColumn    int
	sortAscending bool
}

type EntityBrowser struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityID
	filterText         string
	filterKind         *ecs.ComponentKind
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &EntityBrowserCache{
			lastLen:       -1,
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = nil
		eb.currentPage = 0
	}
	if eb.filterKind != nil {
		imgui.SameLine()
		imgui.Text(fmt.Sprintf("with %s", *eb.filterKind))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.Filtered()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.SceneName)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.Filtered()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Refresh rebuilds the cached rows when entities were created or destroyed
// since the last call. Component changes on existing entities are picked up
// on every call.
func (eb *EntityBrowser) Refresh(w *ecs.World) {
	if eb.cache.lastLen != w.Len() || eb.cache.lastNextID != w.NextID() {
		eb.cache.lastLen = w.Len()
		eb.cache.lastNextID = w.NextID()
		eb.rebuildCache(w)
		return
	}

	for i := range eb.cache.entities {
		info := &eb.cache.entities[i]
		if mask := w.Mask(info.ID); mask != info.Mask {
			*info = describe(w, info.ID)
		}
	}
}

func (eb *EntityBrowser) rebuildCache(w *ecs.World) {
	eb.cache.entities = eb.cache.entities[:0]
	for id := range w.All() {
		eb.cache.entities = append(eb.cache.entities, describe(w, id))
	}
	if eb.selectedEntityId != ecs.InvalidEntity && !w.Exists(eb.selectedEntityId) {
		eb.selectedEntityId = ecs.InvalidEntity
	}
	eb.sortEntities()
}

func describe(w *ecs.World, id ecs.EntityID) EntityInfo {
	mask := w.Mask(id)
	kinds := mask.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	info := EntityInfo{
		ID:             id,
		Mask:           mask,
		ComponentTypes: names,
		ComponentCount: len(names),
	}
	if node := w.SceneNode(id); node != nil {
		info.SceneName = node.Name
	}
	return info
}

func (eb *EntityBrowser) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 0:
			less = a.ID < b.ID
		case 1:
			less = a.SceneName < b.SceneName
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

// Filtered returns the cached rows matching the search text and kind filter.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" && eb.filterKind == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterKind != nil && !entity.Mask.Has(*eb.filterKind) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			nameStr := strings.ToLower(entity.SceneName)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(nameStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) SetFilterText(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

func (eb *EntityBrowser) SetKindFilter(kind ecs.ComponentKind) {
	eb.filterKind = &kind
	eb.currentPage = 0
}

func (eb *EntityBrowser) Select(id ecs.EntityID) {
	eb.selectedEntityId = id
}

func (eb *EntityBrowser) Selected() ecs.EntityID {
	return eb.selectedEntityId
}
