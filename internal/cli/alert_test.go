package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"coinwatch/internal/alerts"
	"coinwatch/internal/config"
	"coinwatch/internal/market"
	"coinwatch/internal/models"
)

// staleStore serves a cached snapshot and records whether it was consulted.
type staleStore struct {
	snapshot *models.Snapshot
	loads    int
}

func (s *staleStore) LoadFavorites(ctx context.Context) ([]string, bool, error) {
	return nil, false, nil
}

func (s *staleStore) SaveFavorites(ctx context.Context, assetIDs []string) error {
	return nil
}

func (s *staleStore) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	return nil
}

func (s *staleStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	s.loads++
	return s.snapshot, nil
}

func (s *staleStore) Close() error { return nil }

// Alerts must only ever fire from live prices. With the endpoint down and a
// hours-old snapshot sitting in the cache, the check fails outright instead
// of evaluating against the cached prices.
func TestAlertCheckNeverEvaluatesCachedData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cached := models.NewSnapshot([]models.AssetRecord{{
		ID:           "bitcoin",
		Symbol:       "btc",
		Name:         "Bitcoin",
		CurrentPrice: 50000,
	}}, time.Now().Add(-6*time.Hour))

	cfg := market.DefaultClientConfig()
	cfg.BaseURL = server.URL
	cfg.MaxRetries = 0
	cfg.HTTPTimeout = 5 * time.Second

	cache := &staleStore{snapshot: cached}
	app := &App{
		Config:    &config.Config{},
		Logger:    zerolog.Nop(),
		Store:     cache,
		Client:    market.NewClient(cfg, zerolog.Nop()),
		Snapshots: market.NewSnapshotStore(),
		Alerts:    alerts.NewRegistry(),
	}

	cmd := newAlertCmd(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"check", "--alert", "bitcoin:above:40000"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected fetch error when the endpoint is down")
	}
	if strings.Contains(buf.String(), "⚑") {
		t.Errorf("alert fired from cached data: %s", buf.String())
	}
	if cache.loads != 0 {
		t.Errorf("offline cache consulted %d times during alert check", cache.loads)
	}
}
