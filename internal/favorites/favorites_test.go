package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

// memStore is an in-memory DataStore for tests.
type memStore struct {
	favorites []string
	persisted bool
	saveErr   error
	saves     int
}

func (m *memStore) LoadFavorites(_ context.Context) ([]string, bool, error) {
	return append([]string(nil), m.favorites...), m.persisted, nil
}

func (m *memStore) SaveFavorites(_ context.Context, assetIDs []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.favorites = append([]string(nil), assetIDs...)
	m.persisted = true
	m.saves++
	return nil
}

func (m *memStore) SaveSnapshot(context.Context, *models.Snapshot) error {
	return nil
}

func (m *memStore) LoadSnapshot(context.Context) (*models.Snapshot, error) {
	return nil, apperrors.ErrDataNotFound
}

func (m *memStore) Close() error { return nil }

func load(t *testing.T, s *memStore) *Registry {
	t.Helper()
	r, err := Load(context.Background(), s, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return r
}

func TestLoadSeedsDefaultsWhenNothingPersisted(t *testing.T) {
	r := load(t, &memStore{})

	got := r.List()
	if len(got) != 2 || got[0] != "bitcoin" || got[1] != "ethereum" {
		t.Errorf("got %v, want [bitcoin ethereum]", got)
	}
}

func TestLoadEmptyPersistedSetStaysEmpty(t *testing.T) {
	// The user removed every favorite; the seed must not come back.
	r := load(t, &memStore{persisted: true})

	if r.Len() != 0 {
		t.Errorf("got %v, want empty", r.List())
	}
}

func TestToggleAddsAndPersists(t *testing.T) {
	s := &memStore{persisted: true}
	r := load(t, s)

	nowFav, err := r.Toggle(context.Background(), "solana")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !nowFav {
		t.Error("toggle reported not-favorite after add")
	}
	if !r.Contains("solana") {
		t.Error("solana not in registry")
	}
	if s.saves != 1 {
		t.Errorf("saves = %d, want 1", s.saves)
	}
	if len(s.favorites) != 1 || s.favorites[0] != "solana" {
		t.Errorf("persisted %v, want [solana]", s.favorites)
	}
}

func TestToggleTwiceRestoresOriginalState(t *testing.T) {
	s := &memStore{favorites: []string{"bitcoin", "ethereum"}, persisted: true}
	r := load(t, s)

	before := r.List()

	if _, err := r.Toggle(context.Background(), "solana"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := r.Toggle(context.Background(), "solana"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	after := r.List()
	if len(after) != len(before) {
		t.Fatalf("got %v, want %v", after, before)
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("got %v, want %v", after, before)
		}
	}
}

func TestListInsertionOrder(t *testing.T) {
	s := &memStore{persisted: true}
	r := load(t, s)

	for _, id := range []string{"tether", "bitcoin", "solana"} {
		if _, err := r.Toggle(context.Background(), id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	// Removing and re-adding moves an asset to the end.
	r.Toggle(context.Background(), "tether")
	r.Toggle(context.Background(), "tether")

	got := r.List()
	want := []string{"bitcoin", "solana", "tether"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestToggleKeepsStateOnPersistFailure(t *testing.T) {
	s := &memStore{favorites: []string{"bitcoin"}, persisted: true}
	r := load(t, s)

	s.saveErr = errors.New("disk full")

	if _, err := r.Toggle(context.Background(), "solana"); err == nil {
		t.Fatal("expected error from failing store")
	}
	if r.Contains("solana") {
		t.Error("registry mutated despite persistence failure")
	}
	if r.Len() != 1 {
		t.Errorf("registry len %d, want 1", r.Len())
	}
}
