// Package view derives the displayed subset of a snapshot from filters and
// pagination state.
package view

import (
	"strings"

	"coinwatch/internal/models"
)

// Pagination defaults. VisibleCount starts at the floor and moves in steps
// of PageStep; it never drops below the floor.
const (
	DefaultVisibleCount = 2
	DefaultPageStep     = 10
)

// FavoriteChecker reports whether an asset is a favorite.
type FavoriteChecker interface {
	Contains(assetID string) bool
}

// FilterState holds the transient display filters. It is never persisted.
type FilterState struct {
	Search        string
	FavoritesOnly bool
	VisibleCount  int

	floor int
	step  int
}

// NewFilterState creates a FilterState with default pagination.
func NewFilterState() FilterState {
	return NewFilterStateWith(DefaultVisibleCount, DefaultPageStep)
}

// NewFilterStateWith creates a FilterState with a custom floor and step.
func NewFilterStateWith(floor, step int) FilterState {
	if floor < 1 {
		floor = DefaultVisibleCount
	}
	if step < 1 {
		step = DefaultPageStep
	}
	return FilterState{
		VisibleCount: floor,
		floor:        floor,
		step:         step,
	}
}

// ShowMore raises the visible count by one page step.
func (f *FilterState) ShowMore() {
	f.VisibleCount += f.stepSize()
}

// ShowLess lowers the visible count by one page step, clamped to the floor.
func (f *FilterState) ShowLess() {
	f.VisibleCount -= f.stepSize()
	if f.VisibleCount < f.floorSize() {
		f.VisibleCount = f.floorSize()
	}
}

func (f *FilterState) stepSize() int {
	if f.step < 1 {
		return DefaultPageStep
	}
	return f.step
}

func (f *FilterState) floorSize() int {
	if f.floor < 1 {
		return DefaultVisibleCount
	}
	return f.floor
}

// ViewModel is the derived, ready-to-render view of a snapshot.
type ViewModel struct {
	Records     []models.AssetRecord
	Matched     int  // records surviving the filters, before truncation
	HasMore     bool // records remain beyond the truncation point
	CanShowLess bool // visible count is above the floor
}

// Apply derives the view model: restrict to favorites when FavoritesOnly,
// then restrict to records whose name or symbol contains the search text
// case-insensitively, then truncate to VisibleCount. Relative order of the
// snapshot is preserved throughout; nothing is re-sorted.
func Apply(snapshot *models.Snapshot, favorites FavoriteChecker, state FilterState) ViewModel {
	vm := ViewModel{
		CanShowLess: state.VisibleCount > state.floorSize(),
	}
	if snapshot == nil {
		return vm
	}

	search := strings.ToLower(strings.TrimSpace(state.Search))

	var filtered []models.AssetRecord
	for _, rec := range snapshot.Records {
		if state.FavoritesOnly && (favorites == nil || !favorites.Contains(rec.ID)) {
			continue
		}
		if search != "" && !matches(rec, search) {
			continue
		}
		filtered = append(filtered, rec)
	}

	vm.Matched = len(filtered)

	visible := state.VisibleCount
	if visible < 1 {
		visible = state.floorSize()
	}
	if len(filtered) > visible {
		vm.Records = filtered[:visible]
		vm.HasMore = true
	} else {
		vm.Records = filtered
	}

	return vm
}

func matches(rec models.AssetRecord, loweredSearch string) bool {
	return strings.Contains(strings.ToLower(rec.Name), loweredSearch) ||
		strings.Contains(strings.ToLower(rec.Symbol), loweredSearch)
}
