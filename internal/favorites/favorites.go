// Package favorites provides the persisted favorites registry.
package favorites

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"coinwatch/internal/store"
)

// DefaultSeed is used when nothing has ever been persisted.
var DefaultSeed = []string{"bitcoin", "ethereum"}

// Registry is an insertion-ordered set of favorite asset IDs, loaded once at
// startup and written back synchronously after every toggle.
type Registry struct {
	mu      sync.RWMutex
	ordered []string
	members map[string]struct{}
	store   store.DataStore
	logger  zerolog.Logger
}

// Load creates a Registry from persisted state. When nothing has ever been
// persisted the registry starts with the default seed; the seed itself is
// only written back on the first toggle.
func Load(ctx context.Context, dataStore store.DataStore, logger zerolog.Logger) (*Registry, error) {
	ids, persisted, err := dataStore.LoadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	if !persisted {
		ids = append([]string(nil), DefaultSeed...)
	}

	r := &Registry{
		ordered: ids,
		members: make(map[string]struct{}, len(ids)),
		store:   dataStore,
		logger:  logger,
	}
	for _, id := range ids {
		r.members[id] = struct{}{}
	}
	return r, nil
}

// Toggle adds the asset if absent and removes it if present, then persists
// the new set. Returns whether the asset is a favorite after the toggle.
// The in-memory state is not mutated when persistence fails.
func (r *Registry) Toggle(ctx context.Context, assetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, present := r.members[assetID]

	next := make([]string, 0, len(r.ordered)+1)
	if present {
		for _, id := range r.ordered {
			if id != assetID {
				next = append(next, id)
			}
		}
	} else {
		next = append(next, r.ordered...)
		next = append(next, assetID)
	}

	if err := r.store.SaveFavorites(ctx, next); err != nil {
		return present, err
	}

	r.ordered = next
	if present {
		delete(r.members, assetID)
	} else {
		r.members[assetID] = struct{}{}
	}

	r.logger.Debug().
		Str("asset", assetID).
		Bool("favorite", !present).
		Msg("Favorite toggled")

	return !present, nil
}

// Contains reports whether the asset is a favorite.
func (r *Registry) Contains(assetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[assetID]
	return ok
}

// List returns the favorites in insertion order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of favorites.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
