// Package market provides the market data client and snapshot store.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	apperrors "coinwatch/internal/errors"
	"coinwatch/internal/logging"
	"coinwatch/internal/models"
)

// ClientConfig holds market client configuration.
type ClientConfig struct {
	BaseURL     string
	Currency    string
	PerPage     int
	HTTPTimeout time.Duration
	MaxRetries  uint64
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:     "https://api.coingecko.com/api/v3",
		Currency:    "usd",
		PerPage:     250,
		HTTPTimeout: 15 * time.Second,
		MaxRetries:  2,
	}
}

// marketsQuery is the query string for the markets endpoint. Sort order and
// page are fixed: the upstream provides records sorted by descending market
// cap and nothing downstream re-sorts.
type marketsQuery struct {
	Currency    string `url:"vs_currency"`
	Order       string `url:"order"`
	PerPage     int    `url:"per_page"`
	Page        int    `url:"page"`
	Sparkline   bool   `url:"sparkline"`
	PriceChange string `url:"price_change_percentage"`
}

// Client fetches asset records from a CoinGecko-compatible markets endpoint.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new market data client.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg = DefaultClientConfig()
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logging.WithOperation(logger, "market_fetch"),
	}
}

// FetchSnapshot fetches one complete snapshot from the markets endpoint.
// Transport errors and 5xx/429 responses are retried with exponential
// backoff; other non-2xx responses fail immediately. All failures surface
// uniformly as a FetchError.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	q := marketsQuery{
		Currency:    c.cfg.Currency,
		Order:       "market_cap_desc",
		PerPage:     c.cfg.PerPage,
		Page:        1,
		Sparkline:   true,
		PriceChange: "24h",
	}
	values, err := query.Values(q)
	if err != nil {
		return nil, apperrors.Wrap(err, "encoding markets query")
	}
	url := fmt.Sprintf("%s/coins/markets?%s", c.cfg.BaseURL, values.Encode())

	start := time.Now()

	var records []models.AssetRecord
	operation := func() error {
		records, err = c.fetchOnce(ctx, url)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logging.LogFetch(c.logger, url, 0, time.Since(start), err)
		return nil, err
	}

	logging.LogFetch(c.logger, url, len(records), time.Since(start), nil)
	return models.NewSnapshot(records, time.Now()), nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]models.AssetRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(apperrors.NewFetchError(url, 0, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		fetchErr := apperrors.NewFetchError(url, resp.StatusCode, nil)
		// Rate limits and server errors are worth retrying; anything
		// else will not get better on its own.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fetchErr
		}
		return nil, backoff.Permanent(fetchErr)
	}

	var records []models.AssetRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, backoff.Permanent(apperrors.NewFetchError(url, 0, err))
	}

	return records, nil
}
