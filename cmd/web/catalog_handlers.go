package main

import (
	"net/http"

	"go.uber.org/zap"

	handlersPkg "oakfield.org/atelier-web/internal/handlers"
	"oakfield.org/atelier-web/internal/nav"
	"oakfield.org/atelier-web/internal/store"
)

// CatalogHandler renders the full catalog page. A category query parameter
// applies the filter before rendering; selection sets are never touched by
// filter changes.
func CatalogHandler(w http.ResponseWriter, r *http.Request) {
	if tag := r.URL.Query().Get("category"); tag != "" {
		coord.SetFilter(tag)
	}
	view := buildCatalogView(r.Context())
	appMetrics.PageRenders.WithLabelValues("catalog").Inc()

	vm := handlersPkg.PageData{
		Title:       "Catalog",
		Theme:       currentTheme(r.Context()),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Catalog:     view,
	}
	vm.SEO.Title = "Catalog | Oakfield Atelier"
	vm.SEO.Description = "Browse solid-wood furniture, compare pieces side by side, and build your order."

	renderPage(w, r, "page_catalog", vm)
}

// CatalogGridFrag renders the grid fragment for htmx filter clicks.
func CatalogGridFrag(w http.ResponseWriter, r *http.Request) {
	if tag := r.URL.Query().Get("category"); tag != "" {
		coord.SetFilter(tag)
	}
	view := buildCatalogView(r.Context())
	appMetrics.PageRenders.WithLabelValues("catalog_grid").Inc()

	push := "/catalog"
	if view.Filter != "all" {
		push += "?category=" + view.Filter
	}
	w.Header().Set("HX-Push-Url", push)
	renderTemplate(w, r, "frag_catalog_grid", view)
}

// ThemeToggleHandler persists the theme preference token.
func ThemeToggleHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	theme := r.FormValue("theme")
	if theme != "dark" {
		theme = "light"
	}
	if err := kvStore.Set(r.Context(), store.KeyTheme, theme); err != nil {
		logger.Warn("persist theme", zap.Error(err))
	}
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusNoContent)
}
