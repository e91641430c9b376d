package view

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"coinwatch/internal/models"
)

// Property: filter stability. For any filter state, the records surviving
// the filter appear in the same relative order as in the source snapshot.
func TestProperty_FilterPreservesSnapshotOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	names := []string{"Bitcoin", "Ethereum", "Tether", "Solana", "Cardano", "Dogecoin", "Polkadot", "Litecoin"}

	snapshotGen := gen.IntRange(1, len(names)).Map(func(n int) *models.Snapshot {
		records := make([]models.AssetRecord, n)
		for i := 0; i < n; i++ {
			records[i] = models.AssetRecord{
				ID:     fmt.Sprintf("asset-%d", i),
				Name:   names[i],
				Symbol: strings.ToLower(names[i][:3]),
			}
		}
		return models.NewSnapshot(records, time.Now())
	})

	searchGen := gen.OneConstOf("", "o", "et", "bit", "sol", "zzz")
	visibleGen := gen.IntRange(1, 10)

	properties.Property("survivors form an ordered subsequence of the snapshot", prop.ForAll(
		func(snapshot *models.Snapshot, search string, visible int) bool {
			state := NewFilterStateWith(2, 10)
			state.Search = search
			state.VisibleCount = visible

			vm := Apply(snapshot, nil, state)

			// Every displayed record must appear in the snapshot, in order.
			pos := -1
			for _, rec := range vm.Records {
				found := -1
				for i := pos + 1; i < len(snapshot.Records); i++ {
					if snapshot.Records[i].ID == rec.ID {
						found = i
						break
					}
				}
				if found == -1 {
					return false
				}
				pos = found
			}
			return len(vm.Records) <= visible
		},
		snapshotGen, searchGen, visibleGen,
	))

	properties.TestingRun(t)
}

// Property: pagination floor. After any sequence of ShowMore/ShowLess
// operations the visible count is never below the floor.
func TestProperty_VisibleCountNeverBelowFloor(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	opsGen := gen.SliceOf(gen.Bool())

	properties.Property("floor holds under arbitrary paging", prop.ForAll(
		func(ops []bool) bool {
			state := NewFilterStateWith(2, 10)
			for _, more := range ops {
				if more {
					state.ShowMore()
				} else {
					state.ShowLess()
				}
				if state.VisibleCount < 2 {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.TestingRun(t)
}
