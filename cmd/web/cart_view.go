package main

import (
	"oakfield.org/atelier-web/internal/format"
)

// CartView is the view model for the cart page.
type CartView struct {
	Lines []CartLine
	Empty bool
	Total string
	// Skipped counts cart items whose price had no numeric token and so
	// contributed nothing to the total.
	Skipped int
}

// CartLine is one cart entry, resolved positionally against the catalog.
type CartLine struct {
	ID         int
	Name       string
	Category   string
	Price      string
	ImageURL   string
	ProductURL string
}

func buildCartView() CartView {
	items := coord.CartItems()
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{
			ID:         it.ID,
			Name:       it.Name,
			Category:   it.Category,
			Price:      it.Price,
			ImageURL:   it.ImageURL,
			ProductURL: it.ProductURL,
		})
	}

	total, skipped := coord.CartTotal()
	if skipped > 0 {
		appMetrics.UnparsablePrices.Add(float64(skipped))
	}

	return CartView{
		Lines:   lines,
		Empty:   len(lines) == 0,
		Total:   format.FmtUSD(total),
		Skipped: skipped,
	}
}
