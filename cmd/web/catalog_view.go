package main

import (
	"context"
	"strings"

	"oakfield.org/atelier-web/internal/availability"
	"oakfield.org/atelier-web/internal/catalog"
)

// CatalogView aggregates everything the catalog page and grid fragment need.
type CatalogView struct {
	Filter     string
	Categories []CategoryOption
	Cards      []ItemCard
	Bar        CompareBar
	CartCount  int
}

// CategoryOption is one entry in the filter control.
type CategoryOption struct {
	Tag    string
	Label  string
	Active bool
}

// ItemCard is the view model for a single catalog card. ID is the item's
// positional identity; templates emit it as data-item-id so marker state can
// be read back against the underlying sets.
type ItemCard struct {
	ID         int
	Name       string
	Category   string
	Price      string
	Width      string
	Depth      string
	Height     string
	ImageURL   string
	ProductURL string
	InCompare  bool
	InCart     bool
	// CompareFull disables the card's compare control when the set is at
	// capacity and this card is not in it.
	CompareFull bool
	Stock       string
}

// buildCatalogView assembles the grid for the coordinator's active filter.
// The whole visible subset is rebuilt in one pass on every call; the catalog
// is small enough that diffing would buy nothing.
func buildCatalogView(ctx context.Context) CatalogView {
	visible := coord.Visible()
	filter := coord.Filter()
	atCapacity := coord.CompareCount() >= coord.CompareMax()
	stock := stockFeed.Lookup(ctx)

	cards := make([]ItemCard, 0, len(visible))
	for _, it := range visible {
		inCompare := coord.InCompare(it.ID)
		cards = append(cards, ItemCard{
			ID:          it.ID,
			Name:        it.Name,
			Category:    it.Category,
			Price:       it.Price,
			Width:       it.Dimensions.Width,
			Depth:       it.Dimensions.Depth,
			Height:      it.Dimensions.Height,
			ImageURL:    it.ImageURL,
			ProductURL:  it.ProductURL,
			InCompare:   inCompare,
			InCart:      coord.InCart(it.ID),
			CompareFull: atCapacity && !inCompare,
			Stock:       stock[it.ID].Label(),
		})
	}

	return CatalogView{
		Filter:     filter,
		Categories: buildCategoryOptions(filter),
		Cards:      cards,
		Bar:        buildCompareBar(""),
		CartCount:  coord.CartCount(),
	}
}

func buildCategoryOptions(active string) []CategoryOption {
	opts := []CategoryOption{{
		Tag:    catalog.AllCategories,
		Label:  "All pieces",
		Active: active == catalog.AllCategories,
	}}
	for _, tag := range cat.Categories() {
		opts = append(opts, CategoryOption{
			Tag:    tag,
			Label:  titleCase(tag),
			Active: active == tag,
		})
	}
	return opts
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// singleCard rebuilds one card after a toggle so htmx can swap it in place.
func singleCard(ctx context.Context, id int) (ItemCard, bool) {
	it, ok := cat.Item(id)
	if !ok {
		return ItemCard{}, false
	}
	atCapacity := coord.CompareCount() >= coord.CompareMax()
	inCompare := coord.InCompare(id)
	var stock availability.Status
	if st, found := stockFeed.Lookup(ctx)[id]; found {
		stock = st
	}
	return ItemCard{
		ID:          it.ID,
		Name:        it.Name,
		Category:    it.Category,
		Price:       it.Price,
		Width:       it.Dimensions.Width,
		Depth:       it.Dimensions.Depth,
		Height:      it.Dimensions.Height,
		ImageURL:    it.ImageURL,
		ProductURL:  it.ProductURL,
		InCompare:   inCompare,
		InCart:      coord.InCart(id),
		CompareFull: atCapacity && !inCompare,
		Stock:       stock.Label(),
	}, true
}
