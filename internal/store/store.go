// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"coinwatch/internal/models"
)

// DataStore defines the interface for persisted local state.
//
// Favorites are the only user state written here; the snapshot cache is a
// best-effort convenience for offline startup and never participates in
// alert correctness.
type DataStore interface {
	// Favorites
	// LoadFavorites returns the persisted favorites in insertion order.
	// The second return value reports whether favorites have ever been
	// persisted; callers seed defaults when it is false.
	LoadFavorites(ctx context.Context) ([]string, bool, error)
	// SaveFavorites replaces the persisted favorites with the given list.
	SaveFavorites(ctx context.Context, assetIDs []string) error

	// Snapshot cache
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error
	// LoadSnapshot returns the cached snapshot, or errors.ErrDataNotFound
	// when nothing has been cached yet.
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)

	// Lifecycle
	Close() error
}
