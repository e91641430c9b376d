package market

import (
	"sync"
	"time"

	"coinwatch/internal/models"
)

// SnapshotStore holds the latest fetched snapshot. Installation is atomic
// and last-write-wins: whichever fetch completes last replaces the snapshot,
// regardless of issuance order.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *models.Snapshot
	stale    bool
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Install replaces the current snapshot with a freshly fetched one.
func (s *SnapshotStore) Install(snapshot *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.stale = false
}

// InstallCached installs a snapshot restored from the offline cache.
// Cached data is marked stale and is replaced by the first live fetch.
func (s *SnapshotStore) InstallCached(snapshot *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && !s.stale {
		return
	}
	s.snapshot = snapshot
	s.stale = true
}

// Current returns the latest snapshot, which may be nil before the first
// successful fetch.
func (s *SnapshotStore) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// LastFetched returns the timestamp of the latest snapshot.
func (s *SnapshotStore) LastFetched() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return time.Time{}
	}
	return s.snapshot.FetchedAt
}

// IsStale reports whether the current snapshot came from the offline cache.
func (s *SnapshotStore) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}
