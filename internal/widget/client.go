package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Client polls the cost API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient points the widget at a cost API base URL, e.g.
// "http://localhost:5050".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the summary and the model breakdown concurrently.
// Either request failing fails the whole fetch; the panel keeps its
// previous snapshot in that case.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(ctx, "/api/cost/summary", &snap.Summary)
	})
	g.Go(func() error {
		return c.getJSON(ctx, "/api/cost/models", &snap.Models)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("cost API unreachable at %s: %w", c.baseURL, err)
	}

	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
