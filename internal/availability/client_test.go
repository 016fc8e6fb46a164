package availability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

const feedURL = "https://feed.example/stock"

func TestLookupParsesFeed(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(200, `{"items":[
			{"id": 0, "state": "in_stock"},
			{"id": 2, "state": "backorder", "lead_time": "3 weeks"}
		]}`))

	c := NewClient(feedURL)
	c.http = http.DefaultClient // httpmock patches the default transport

	got := c.Lookup(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 statuses, got %v", got)
	}
	if got[2].Label() != "Backordered, ships in 3 weeks" {
		t.Fatalf("unexpected label: %q", got[2].Label())
	}
}

func TestLookupFallsBackOnServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(500, "boom"))

	c := NewClient(feedURL)
	c.http = http.DefaultClient

	got := c.Lookup(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty fallback map, got %v", got)
	}
	// unknown ids read as in stock
	if got[7].Label() != "In stock" {
		t.Fatalf("zero-value status should read as in stock, got %q", got[7].Label())
	}
}

func TestLookupCachesWithinTTL(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, feedURL,
		httpmock.NewStringResponder(200, `{"items":[{"id": 1, "state": "sold_out"}]}`))

	c := NewClient(feedURL)
	c.http = http.DefaultClient
	c.SetCacheTTL(time.Hour)

	c.Lookup(context.Background())
	c.Lookup(context.Background())
	if calls := httpmock.GetTotalCallCount(); calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
}

func TestEmptyBaseURLNeverCallsOut(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	c := NewClient("")
	got := c.Lookup(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if calls := httpmock.GetTotalCallCount(); calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls)
	}
}
