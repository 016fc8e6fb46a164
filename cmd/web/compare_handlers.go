package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	handlersPkg "oakfield.org/atelier-web/internal/handlers"
	"oakfield.org/atelier-web/internal/nav"
	"oakfield.org/atelier-web/internal/selection"
)

// hxTrigger sets the HX-Trigger header with a JSON event payload.
func hxTrigger(w http.ResponseWriter, event string, payload any) {
	body, err := json.Marshal(map[string]any{event: payload})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(body))
}

// CompareToggleHandler toggles one item's comparison membership and responds
// with the rebuilt card so htmx can swap it in place. A toggle at capacity is
// rejected outright: the set is unchanged and the card renders with the
// capacity notice event attached.
func CompareToggleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	added, err := coord.ToggleCompare(id)
	switch {
	case errors.Is(err, selection.ErrUnknownItem):
		http.Error(w, "unknown item", http.StatusNotFound)
		return
	case errors.Is(err, selection.ErrCompareFull):
		appMetrics.CompareRejections.Inc()
		hxTrigger(w, "compare:limit", map[string]any{
			"max":     coord.CompareMax(),
			"message": compareLimitWarning(),
		})
	case err != nil:
		http.Error(w, "compare toggle failed", http.StatusInternalServerError)
		return
	default:
		appMetrics.CompareToggles.Inc()
		hxTrigger(w, "compare:changed", map[string]any{
			"count": coord.CompareCount(),
			"added": added,
		})
	}

	card, ok := singleCard(r.Context(), id)
	if !ok {
		http.Error(w, "unknown item", http.StatusNotFound)
		return
	}
	renderTemplate(w, r, "frag_item_card", card)
}

// CompareBarFrag renders the floating compare bar fragment.
func CompareBarFrag(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "frag_compare_bar", buildCompareBar(r.URL.Query().Get("warning")))
}

// CompareClearHandler empties the comparison set and re-renders the grid so
// every card's marker state resets in one swap.
func CompareClearHandler(w http.ResponseWriter, r *http.Request) {
	coord.ClearCompare()
	appMetrics.CompareToggles.Inc()
	hxTrigger(w, "compare:changed", map[string]any{"count": 0})
	renderTemplate(w, r, "frag_catalog_grid", buildCatalogView(r.Context()))
}

// CompareHandler renders the side-by-side comparison page. Fewer than two
// selected items renders the page with a notice instead of the table.
func CompareHandler(w http.ResponseWriter, r *http.Request) {
	view := buildComparisonView()
	appMetrics.PageRenders.WithLabelValues("compare").Inc()

	vm := handlersPkg.PageData{
		Title:       "Compare",
		Theme:       currentTheme(r.Context()),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Compare:     view,
	}
	vm.SEO.Title = "Compare | Oakfield Atelier"
	vm.SEO.Description = "Side-by-side dimensions and pricing for your selected pieces."

	renderPage(w, r, "page_compare", vm)
}
