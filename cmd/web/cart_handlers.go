package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	handlersPkg "oakfield.org/atelier-web/internal/handlers"
	"oakfield.org/atelier-web/internal/nav"
	"oakfield.org/atelier-web/internal/selection"
)

// CartToggleHandler toggles one item's cart membership, persists the full
// cart record, and responds with the rebuilt card. A persistence failure is
// logged but never shown: the in-memory set already moved on.
func CartToggleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	added, err := coord.ToggleCart(r.Context(), id)
	if errors.Is(err, selection.ErrUnknownItem) {
		http.Error(w, "unknown item", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Warn("persist cart", zap.Error(err), zap.Int("item_id", id))
	}
	appMetrics.CartMutations.Inc()
	hxTrigger(w, "cart:changed", map[string]any{
		"count": coord.CartCount(),
		"added": added,
	})

	// the cart page swaps its whole body; the catalog swaps just the card
	if r.URL.Query().Get("from") == "cart" {
		renderTemplate(w, r, "frag_cart", buildCartView())
		return
	}
	card, ok := singleCard(r.Context(), id)
	if !ok {
		http.Error(w, "unknown item", http.StatusNotFound)
		return
	}
	renderTemplate(w, r, "frag_item_card", card)
}

// CartClearHandler empties the cart and removes its persisted record, then
// re-renders the cart page body.
func CartClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := coord.ClearCart(r.Context()); err != nil {
		logger.Warn("clear cart", zap.Error(err))
	}
	appMetrics.CartMutations.Inc()
	hxTrigger(w, "cart:changed", map[string]any{"count": 0})
	renderTemplate(w, r, "frag_cart", buildCartView())
}

// CartHandler renders the cart page with the running total.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	view := buildCartView()
	appMetrics.PageRenders.WithLabelValues("cart").Inc()

	vm := handlersPkg.PageData{
		Title:       "Cart",
		Theme:       currentTheme(r.Context()),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Cart:        view,
	}
	vm.SEO.Title = "Cart | Oakfield Atelier"
	vm.SEO.Description = "Your selected pieces and running total."

	renderPage(w, r, "page_cart", vm)
}
