package view

import (
	"testing"
	"time"

	"coinwatch/internal/models"
)

type fakeFavorites map[string]struct{}

func (f fakeFavorites) Contains(assetID string) bool {
	_, ok := f[assetID]
	return ok
}

func testSnapshot() *models.Snapshot {
	return models.NewSnapshot([]models.AssetRecord{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "tether", Symbol: "usdt", Name: "Tether"},
		{ID: "solana", Symbol: "sol", Name: "Solana"},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"},
	}, time.Now())
}

func ids(records []models.AssetRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplySearchFilter(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"eth matches ethereum and tether", "eth", []string{"ethereum", "tether"}},
		{"symbol match", "doge", []string{"dogecoin"}},
		{"case-insensitive", "BitCoin", []string{"bitcoin"}},
		{"no match", "zzz", nil},
		{"empty matches all", "", []string{"bitcoin", "ethereum", "tether", "solana", "dogecoin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewFilterStateWith(2, 10)
			state.Search = tt.search
			state.VisibleCount = 100

			vm := Apply(testSnapshot(), nil, state)
			if !equalIDs(ids(vm.Records), tt.want) {
				t.Errorf("got %v, want %v", ids(vm.Records), tt.want)
			}
		})
	}
}

func TestApplySearchOnlyEthereumScenario(t *testing.T) {
	snapshot := models.NewSnapshot([]models.AssetRecord{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}, time.Now())

	state := NewFilterStateWith(2, 10)
	state.Search = "eth"

	vm := Apply(snapshot, nil, state)
	if !equalIDs(ids(vm.Records), []string{"ethereum"}) {
		t.Errorf("got %v, want [ethereum]", ids(vm.Records))
	}
}

func TestApplyFavoritesOnly(t *testing.T) {
	favs := fakeFavorites{"ethereum": {}, "dogecoin": {}}

	state := NewFilterStateWith(2, 10)
	state.FavoritesOnly = true
	state.VisibleCount = 100

	vm := Apply(testSnapshot(), favs, state)
	// Snapshot order preserved, not favorites insertion order.
	if !equalIDs(ids(vm.Records), []string{"ethereum", "dogecoin"}) {
		t.Errorf("got %v, want [ethereum dogecoin]", ids(vm.Records))
	}
}

func TestApplyFavoritesOnlyNilChecker(t *testing.T) {
	state := NewFilterStateWith(2, 10)
	state.FavoritesOnly = true

	vm := Apply(testSnapshot(), nil, state)
	if len(vm.Records) != 0 {
		t.Errorf("nil favorites checker with favorites-only yielded %v", ids(vm.Records))
	}
}

func TestApplyTruncationAndHasMore(t *testing.T) {
	state := NewFilterStateWith(2, 10)

	vm := Apply(testSnapshot(), nil, state)
	if len(vm.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(vm.Records))
	}
	if !vm.HasMore {
		t.Error("HasMore = false with 5 matching and 2 visible")
	}
	if vm.CanShowLess {
		t.Error("CanShowLess = true at the floor")
	}
	if vm.Matched != 5 {
		t.Errorf("Matched = %d, want 5", vm.Matched)
	}
}

func TestShowMoreShowLess(t *testing.T) {
	state := NewFilterStateWith(2, 10)

	state.ShowMore()
	if state.VisibleCount != 12 {
		t.Errorf("VisibleCount = %d after ShowMore, want 12", state.VisibleCount)
	}

	vm := Apply(testSnapshot(), nil, state)
	if !vm.CanShowLess {
		t.Error("CanShowLess = false above the floor")
	}
	if vm.HasMore {
		t.Error("HasMore = true with 5 matching and 12 visible")
	}

	state.ShowLess()
	if state.VisibleCount != 2 {
		t.Errorf("VisibleCount = %d after ShowLess, want 2", state.VisibleCount)
	}
}

func TestShowLessNeverBelowFloor(t *testing.T) {
	state := NewFilterStateWith(2, 10)
	for i := 0; i < 50; i++ {
		state.ShowLess()
	}
	if state.VisibleCount != 2 {
		t.Errorf("VisibleCount = %d after repeated ShowLess, want floor 2", state.VisibleCount)
	}
}

func TestApplyNilSnapshot(t *testing.T) {
	vm := Apply(nil, nil, NewFilterStateWith(2, 10))
	if len(vm.Records) != 0 || vm.HasMore || vm.Matched != 0 {
		t.Errorf("unexpected view model for nil snapshot: %+v", vm)
	}
}

func TestSelectionSingleExpansion(t *testing.T) {
	var s Selection

	if _, ok := s.Expanded(); ok {
		t.Fatal("new selection has an expanded item")
	}

	if !s.Select("bitcoin") {
		t.Error("Select did not expand bitcoin")
	}
	if !s.IsExpanded("bitcoin") {
		t.Error("bitcoin not expanded")
	}

	// Selecting a second item collapses the first.
	if !s.Select("ethereum") {
		t.Error("Select did not expand ethereum")
	}
	if s.IsExpanded("bitcoin") {
		t.Error("bitcoin still expanded after selecting ethereum")
	}

	// Selecting the expanded item collapses it.
	if s.Select("ethereum") {
		t.Error("re-selecting expanded item did not collapse")
	}
	if _, ok := s.Expanded(); ok {
		t.Error("selection not empty after collapse")
	}
}
