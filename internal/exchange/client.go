// Package exchange resolves the USD→KRW rate that cost reports
// convert with.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yjpartners/valet/internal/config"
)

// cacheTTL bounds how old a cached rate may be before we refetch.
const cacheTTL = 24 * time.Hour

// Config configures the rate client. Zero fields fall back to the
// package defaults.
type Config struct {
	URL       string
	CachePath string
	Fallback  float64
}

// Client resolves the USD→KRW exchange rate, caching it on disk so at
// most one network call happens per day.
type Client struct {
	httpClient *http.Client
	url        string
	cachePath  string
	fallback   float64
}

// NewClient creates a rate client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = config.DefaultExchangeURL
	}
	if cfg.Fallback <= 0 {
		cfg.Fallback = config.DefaultExchangeFallback
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(config.CacheDir(), "exchange-rate.json")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        cfg.URL,
		cachePath:  cfg.CachePath,
		fallback:   cfg.Fallback,
	}
}

// cacheEntry is the on-disk cache format.
type cacheEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Rate      float64   `json:"rate"`
}

// Rate returns the current USD→KRW rate. It never fails: a fresh
// cached rate wins, then a live fetch, then the configured fallback.
func (c *Client) Rate(ctx context.Context) float64 {
	if rate, ok := c.cachedRate(); ok {
		return rate
	}

	rate, err := c.fetchRate(ctx)
	if err != nil {
		slog.Warn("Exchange rate fetch failed, using fallback",
			"fallback", c.fallback,
			"error", err)
		return c.fallback
	}

	c.writeCache(rate)
	return rate
}

func (c *Client) cachedRate() (float64, bool) {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return 0, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Debug("Ignoring unreadable exchange rate cache", "path", c.cachePath, "error", err)
		return 0, false
	}
	if entry.Rate <= 0 || time.Since(entry.Timestamp) >= cacheTTL {
		return 0, false
	}
	return entry.Rate, true
}

func (c *Client) fetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching exchange rate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding exchange rate response: %w", err)
	}

	rate, ok := payload.Rates["KRW"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no KRW rate in response")
	}
	return rate, nil
}

func (c *Client) writeCache(rate float64) {
	data, err := json.Marshal(cacheEntry{Timestamp: time.Now(), Rate: rate})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0750); err != nil {
		slog.Debug("Could not create exchange rate cache directory", "error", err)
		return
	}
	if err := os.WriteFile(c.cachePath, data, 0600); err != nil {
		slog.Debug("Could not write exchange rate cache", "error", err)
	}
}
