package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/models"
)

const marketsPayload = `[
	{
		"id": "bitcoin",
		"symbol": "btc",
		"name": "Bitcoin",
		"current_price": 50000.12,
		"high_24h": 51000,
		"low_24h": 48000,
		"price_change_percentage_24h": 2.5,
		"market_cap": 1000000000000,
		"total_volume": 30000000000,
		"sparkline_in_7d": {"price": [48000, 49000, 50000]}
	},
	{
		"id": "ethereum",
		"symbol": "eth",
		"name": "Ethereum",
		"current_price": 3000,
		"high_24h": 3100,
		"low_24h": 2900,
		"price_change_percentage_24h": -1.2,
		"market_cap": 400000000000,
		"total_volume": 15000000000
	}
]`

func testClient(baseURL string, maxRetries uint64) *Client {
	cfg := DefaultClientConfig()
	cfg.BaseURL = baseURL
	cfg.MaxRetries = maxRetries
	cfg.HTTPTimeout = 5 * time.Second
	return NewClient(cfg, zerolog.Nop())
}

func TestFetchSnapshotSuccess(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marketsPayload))
	}))
	defer server.Close()

	client := testClient(server.URL, 0)
	snapshot, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if snapshot.Len() != 2 {
		t.Fatalf("got %d records, want 2", snapshot.Len())
	}

	rec, ok := snapshot.Find("bitcoin")
	if !ok {
		t.Fatal("bitcoin missing")
	}
	if rec.CurrentPrice != 50000.12 || rec.Name != "Bitcoin" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Sparkline7d == nil || len(rec.Sparkline7d.Price) != 3 {
		t.Error("sparkline not decoded")
	}

	query, err := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	if err != nil {
		t.Fatal(err)
	}
	params := query.URL.Query()
	if params.Get("vs_currency") != "usd" {
		t.Errorf("vs_currency = %q, want usd", params.Get("vs_currency"))
	}
	if params.Get("order") != "market_cap_desc" {
		t.Errorf("order = %q, want market_cap_desc", params.Get("order"))
	}
	if params.Get("sparkline") != "true" {
		t.Errorf("sparkline = %q, want true", params.Get("sparkline"))
	}
}

func TestFetchSnapshotNonSuccessStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL, 3)
	_, err := client.FetchSnapshot(context.Background())
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var fetchErr *apperrors.FetchError
	if !apperrors.As(err, &fetchErr) {
		t.Fatalf("got %T, want FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fetchErr.StatusCode)
	}
	// 4xx is permanent, no retries.
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestFetchSnapshotMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, 0)
	if _, err := client.FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSnapshotStoreInstall(t *testing.T) {
	store := NewSnapshotStore()

	if store.Current() != nil {
		t.Fatal("new store holds a snapshot")
	}
	if !store.LastFetched().IsZero() {
		t.Fatal("new store reports a fetch time")
	}

	first := models.NewSnapshot([]models.AssetRecord{{ID: "bitcoin"}}, time.Now().Add(-time.Minute))
	second := models.NewSnapshot([]models.AssetRecord{{ID: "ethereum"}}, time.Now())

	store.Install(first)
	store.Install(second)

	// Last write wins regardless of timestamps.
	if _, ok := store.Current().Find("ethereum"); !ok {
		t.Error("latest install not visible")
	}
	if store.IsStale() {
		t.Error("live install marked stale")
	}
}

func TestSnapshotStoreCachedDoesNotClobberLive(t *testing.T) {
	store := NewSnapshotStore()

	live := models.NewSnapshot([]models.AssetRecord{{ID: "bitcoin"}}, time.Now())
	cached := models.NewSnapshot([]models.AssetRecord{{ID: "ethereum"}}, time.Now().Add(-time.Hour))

	store.InstallCached(cached)
	if !store.IsStale() {
		t.Error("cached install not marked stale")
	}

	store.Install(live)
	store.InstallCached(cached)

	if _, ok := store.Current().Find("bitcoin"); !ok {
		t.Error("cached snapshot replaced a live one")
	}
	if store.IsStale() {
		t.Error("live snapshot marked stale after cached install attempt")
	}
}
