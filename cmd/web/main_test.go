package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"oakfield.org/atelier-web/internal/availability"
	"oakfield.org/atelier-web/internal/catalog"
	"oakfield.org/atelier-web/internal/content"
	"oakfield.org/atelier-web/internal/metrics"
	"oakfield.org/atelier-web/internal/selection"
	"oakfield.org/atelier-web/internal/store"
	"oakfield.org/atelier-web/internal/testutil"
)

// Four items, two sharing a category, one with a range price and one with no
// numeric price at all. Identities are positional: 0..3 in this order.
const testCatalogJSON = `[
  {"name": "Hollis Sofa", "category": "Sofas", "price": "$2,299 - $3,099",
   "dimensions": {"width": "84\"", "depth": "38\"", "height": "33\""},
   "image_url": "https://cdn.example/hollis.jpg", "product_url": "https://shop.example/hollis"},
  {"name": "Marlow Lounge Chair", "category": "Chairs", "price": "$1,000.00",
   "dimensions": {"width": "31\"", "depth": "34\"", "height": "30\""},
   "image_url": "https://cdn.example/marlow.jpg", "product_url": "https://shop.example/marlow"},
  {"name": "Calder Sectional", "category": "Sofas", "price": "$4,250",
   "dimensions": {"width": "118\"", "depth": "64\"", "height": "32\""},
   "image_url": "https://cdn.example/calder.jpg", "product_url": "https://shop.example/calder"},
  {"name": "Oak Sample Set", "category": "Accessories", "price": "Call for pricing",
   "dimensions": {"width": "6\"", "depth": "4\"", "height": "1\""},
   "image_url": "https://cdn.example/samples.jpg", "product_url": "https://shop.example/samples"}
]`

// newTestRouter rebuilds the package state main() normally sets up, backed
// by the fixture catalog and a throwaway SQLite store.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	devMode = true
	templatesDir = "../../templates"
	publicDir = "../../public"
	logger = zap.NewNop()

	var err error
	cat, err = catalog.Parse([]byte(testCatalogJSON))
	if err != nil {
		t.Fatalf("parse fixture catalog: %v", err)
	}
	kvStore = openTestStore(t)
	coord = selection.New(context.Background(), cat, kvStore, selection.DefaultCompareMax)
	guides = content.NewLibrary("../../content")
	stockFeed = availability.NewClient("")
	appMetrics = metrics.New()

	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates failed: %v", err)
	}
	return newRouter()
}

func openTestStore(t *testing.T) store.KV {
	t.Helper()
	sq, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "atelier.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return sq
}

// testClient replays session and CSRF cookies across requests the way a
// browser would, attaching the double-submit header on mutations.
type testClient struct {
	t       *testing.T
	srv     http.Handler
	cookies map[string]*http.Cookie
	csrf    string
}

func newTestClient(t *testing.T, srv http.Handler) *testClient {
	c := &testClient{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
	// prime session and CSRF cookies
	c.get("/healthz")
	if c.csrf == "" {
		t.Fatal("no csrf cookie issued on first request")
	}
	return c
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	rec := httptest.NewRecorder()
	c.srv.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
		if ck.Name == "csrf_token" {
			c.csrf = ck.Value
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) post(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, url.Values{})
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
}

func TestRootRedirectsToCatalog(t *testing.T) {
	srv := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/catalog" {
		t.Fatalf("expected redirect to /catalog, got %q", loc)
	}
}

func TestCatalogRendersPositionalIdentity(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	rec := c.get("/catalog")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	ids := testutil.ItemIDs(t, doc, ".item-card")
	want := []int{0, 1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %d cards, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("card order mismatch: got %v want %v", ids, want)
		}
	}
}

func TestCatalogGridFilterPreservesOrder(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	rec := c.get("/catalog/grid?category=sofas")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if push := rec.Header().Get("HX-Push-Url"); push != "/catalog?category=sofas" {
		t.Fatalf("expected HX-Push-Url for the filter, got %q", push)
	}
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	ids := testutil.ItemIDs(t, doc, ".item-card")
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 2 {
		t.Fatalf("expected sofa cards [0 2] in original order, got %v", ids)
	}
}

func TestUnknownCategoryFallsBackToAll(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	rec := c.get("/catalog/grid?category=lamps")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	if ids := testutil.ItemIDs(t, doc, ".item-card"); len(ids) != 4 {
		t.Fatalf("expected all 4 cards for unknown category, got %v", ids)
	}
}

func TestMutationWithoutCSRFTokenRejected(t *testing.T) {
	srv := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/compare/toggle/0", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestCompareToggleMarksCard(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	rec := c.post("/compare/toggle/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if trig := rec.Header().Get("HX-Trigger"); !strings.Contains(trig, "compare:changed") {
		t.Fatalf("expected compare:changed trigger, got %q", trig)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-item-id="1"`) {
		t.Fatalf("expected card for item 1 in response; body=%s", body)
	}
	if !strings.Contains(body, "is-compared") {
		t.Fatalf("expected is-compared marker on toggled card; body=%s", body)
	}
}

func TestCompareCapacityRejectsFourthItem(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	for _, id := range []string{"0", "1", "2"} {
		if rec := c.post("/compare/toggle/" + id); rec.Code != http.StatusOK {
			t.Fatalf("toggle %s: expected 200, got %d", id, rec.Code)
		}
	}
	rec := c.post("/compare/toggle/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on rejected toggle, got %d", rec.Code)
	}
	if trig := rec.Header().Get("HX-Trigger"); !strings.Contains(trig, "compare:limit") {
		t.Fatalf("expected compare:limit trigger, got %q", trig)
	}
	if strings.Contains(rec.Body.String(), "is-compared") {
		t.Fatalf("rejected card must not carry the compare marker; body=%s", rec.Body.String())
	}

	// the set itself is untouched: the compare page still shows three columns
	page := c.get("/compare")
	doc := testutil.ParseHTML(t, page.Body.Bytes())
	cols := testutil.ItemIDs(t, doc, "th[data-item-id]")
	if len(cols) != 3 {
		t.Fatalf("expected 3 compare columns after rejection, got %v", cols)
	}
}

func TestComparePageColumnsFollowInsertionOrder(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	c.post("/compare/toggle/2")
	c.post("/compare/toggle/0")
	rec := c.get("/compare")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	cols := testutil.ItemIDs(t, doc, "th[data-item-id]")
	if len(cols) != 2 || cols[0] != 2 || cols[1] != 0 {
		t.Fatalf("expected columns [2 0] in insertion order, got %v", cols)
	}
}

func TestCompareUnderTwoShowsNotice(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	c.post("/compare/toggle/0")
	rec := c.get("/compare")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Select at least two pieces") {
		t.Fatalf("expected the under-two notice; body=%s", rec.Body.String())
	}
}

func TestFilterChangeDoesNotDisturbSelection(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	// select a chair, then filter the grid down to sofas only
	c.post("/compare/toggle/1")
	c.get("/catalog/grid?category=sofas")

	rec := c.get("/compare/bar")
	if !strings.Contains(rec.Body.String(), "1 of 3 selected") {
		t.Fatalf("expected selection to survive the filter change; body=%s", rec.Body.String())
	}
}

func TestCartTotalSkipsUnparsablePrices(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	// range price parses as its first token (2299), plain price as 1000,
	// "Call for pricing" contributes nothing
	c.post("/cart/toggle/0")
	c.post("/cart/toggle/1")
	c.post("/cart/toggle/3")

	rec := c.get("/cart")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "$3,299.00") {
		t.Fatalf("expected total $3,299.00; body=%s", body)
	}
	if !strings.Contains(body, "1 item(s) without a listed price") {
		t.Fatalf("expected skipped-price note; body=%s", body)
	}
}

func TestCartSurvivesCoordinatorRebuild(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	c.post("/cart/toggle/1")

	// simulate a restart over the same store
	coord = selection.New(context.Background(), cat, kvStore, selection.DefaultCompareMax)

	rec := c.get("/cart")
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	ids := testutil.ItemIDs(t, doc, ".cart-line")
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("expected restored cart [1], got %v", ids)
	}
}

func TestCartClearRemovesPersistedRecord(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	c.post("/cart/toggle/0")

	rec := c.post("/cart/clear")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your cart is empty") {
		t.Fatalf("expected empty cart body; body=%s", rec.Body.String())
	}
	if _, err := kvStore.Get(context.Background(), store.KeyCart); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected cart record removed, got err=%v", err)
	}
}

func TestCartRemoveFromCartPage(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	c.post("/cart/toggle/0")
	c.post("/cart/toggle/2")

	rec := c.post("/cart/toggle/0?from=cart")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	ids := testutil.ItemIDs(t, doc, ".cart-line")
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected cart [2] after removal, got %v", ids)
	}
}

func TestThemeTogglePersists(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))
	rec := c.do(http.MethodPost, "/theme", url.Values{"theme": {"dark"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Fatal("expected HX-Refresh header on theme change")
	}

	page := c.get("/catalog")
	if !strings.Contains(page.Body.String(), `class="theme-dark"`) {
		t.Fatalf("expected dark theme class on html element; body=%s", page.Body.String())
	}
}

func TestGuidesListAndDetail(t *testing.T) {
	c := newTestClient(t, newTestRouter(t))

	list := c.get("/guides")
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	if !strings.Contains(list.Body.String(), "Caring for Solid Wood Furniture") {
		t.Fatalf("expected guide title in listing; body=%s", list.Body.String())
	}

	detail := c.get("/guides/wood-care")
	if detail.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", detail.Code)
	}
	if !strings.Contains(detail.Body.String(), "hardwax oil") {
		t.Fatalf("expected rendered guide body; body=%s", detail.Body.String())
	}

	if missing := c.get("/guides/no-such-guide"); missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown guide, got %d", missing.Code)
	}
}
