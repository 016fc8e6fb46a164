package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"oakfield.org/atelier-web/internal/content"
	handlersPkg "oakfield.org/atelier-web/internal/handlers"
	"oakfield.org/atelier-web/internal/nav"
)

// GuidesHandler renders the guide listing, newest first.
func GuidesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := guides.List()
	if err != nil {
		logger.Error("list guides", zap.Error(err))
		http.Error(w, "guides unavailable", http.StatusInternalServerError)
		return
	}
	appMetrics.PageRenders.WithLabelValues("guides").Inc()

	vm := handlersPkg.PageData{
		Title:       "Guides",
		Theme:       currentTheme(r.Context()),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Guides:      list,
	}
	vm.SEO.Title = "Care & Material Guides | Oakfield Atelier"
	vm.SEO.Description = "How to care for solid wood, choose finishes, and measure your space."

	renderPage(w, r, "page_guides", vm)
}

// GuideHandler renders a single guide page by slug.
func GuideHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	g, err := guides.Guide(slug)
	if errors.Is(err, content.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Error("render guide", zap.Error(err), zap.String("slug", slug))
		http.Error(w, "guide unavailable", http.StatusInternalServerError)
		return
	}
	appMetrics.PageRenders.WithLabelValues("guide").Inc()

	vm := handlersPkg.PageData{
		Title:       g.Title,
		Theme:       currentTheme(r.Context()),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Guide:       g,
	}
	vm.SEO.Title = g.Title + " | Oakfield Atelier"
	vm.SEO.Description = g.Summary

	renderPage(w, r, "page_guide", vm)
}
