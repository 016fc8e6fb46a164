// Package availability fetches stock status for catalog items from an
// upstream feed, with a local fallback so the storefront renders even when
// the feed is unreachable.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Status describes stock for a single catalog item, keyed by identity.
type Status struct {
	ItemID   int    `json:"id"`
	State    string `json:"state"` // "in_stock", "backorder", "sold_out"
	LeadTime string `json:"lead_time,omitempty"`
}

// Label returns display copy for the state.
func (s Status) Label() string {
	switch s.State {
	case "backorder":
		if s.LeadTime != "" {
			return "Backordered, ships in " + s.LeadTime
		}
		return "Backordered"
	case "sold_out":
		return "Sold out"
	default:
		return "In stock"
	}
}

type feedPayload struct {
	Items []Status `json:"items"`
}

// Client fetches availability with caching. A client with an empty baseURL
// serves only the fallback (everything in stock).
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	cached  map[int]Status
	expires time.Time
	ttl     time.Duration
}

// NewClient builds an availability client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSpace(baseURL),
		http:    &http.Client{Timeout: 5 * time.Second},
		ttl:     2 * time.Minute,
	}
}

// SetCacheTTL configures the cache duration (primarily for tests).
func (c *Client) SetCacheTTL(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	c.mu.Lock()
	c.ttl = d
	c.mu.Unlock()
}

// Lookup returns the status map keyed by item identity. Feed failures
// degrade to an empty map, which renders as in-stock.
func (c *Client) Lookup(ctx context.Context) map[int]Status {
	c.mu.RLock()
	if c.cached != nil && time.Now().Before(c.expires) {
		out := c.cached
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	statuses := map[int]Status{}
	if c.baseURL != "" {
		if fetched, err := c.fetchRemote(ctx); err == nil {
			statuses = fetched
		}
	}

	c.mu.Lock()
	c.cached = statuses
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return statuses
}

func (c *Client) fetchRemote(ctx context.Context) (map[int]Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("availability: remote status %d", resp.StatusCode)
	}
	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	out := make(map[int]Status, len(payload.Items))
	for _, st := range payload.Items {
		out[st.ItemID] = st
	}
	return out, nil
}
