// Package handlers holds the shared page view models used by the base layout.
package handlers

import "oakfield.org/atelier-web/internal/nav"

// PageData is the generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Theme     string // "light" or "dark", from the persisted preference
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Optional per-page view model payloads
	Catalog any
	Compare any
	Cart    any
	Guides  any
	Guide   any
}

// SEOData carries head metadata for a page.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          struct {
		Title       string
		Description string
		Image       string
		Type        string
		URL         string
		SiteName    string
	}
	JSONLD []string
}
