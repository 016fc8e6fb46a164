// Package catalog loads the furniture catalog and exposes the filtered
// projections the storefront renders from.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// AllCategories is the sentinel filter value that selects every item.
const AllCategories = "all"

// Dimensions holds the display strings for an item's measurements.
type Dimensions struct {
	Width  string `json:"width"`
	Depth  string `json:"depth"`
	Height string `json:"height"`
}

// Item is a single catalog record. ID is the item's position in the loaded
// collection; it is assigned once at load time and never changes, so it is
// safe to use as the key for selection-set membership across filtered views.
type Item struct {
	ID         int        `json:"-"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Price      string     `json:"price"`
	Dimensions Dimensions `json:"dimensions"`
	ImageURL   string     `json:"image_url"`
	ProductURL string     `json:"product_url"`
}

// Catalog is the immutable, ordered item collection for a session. It is
// populated exactly once; nothing reorders or mutates it afterwards.
type Catalog struct {
	items      []Item
	categories []string
}

// Load reads the catalog data file and assigns positional identities.
// A missing or unparsable file is fatal to the session; the caller should
// not attempt to serve a partial catalog.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes catalog JSON. Exposed separately so tests can build
// catalogs without touching the filesystem.
func Parse(raw []byte) (*Catalog, error) {
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: no items in data file")
	}
	seen := map[string]struct{}{}
	var cats []string
	for i := range items {
		items[i].ID = i
		c := strings.ToLower(strings.TrimSpace(items[i].Category))
		items[i].Category = c
		if c == "" {
			continue
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			cats = append(cats, c)
		}
	}
	sort.Strings(cats)
	return &Catalog{items: items, categories: cats}, nil
}

// Len returns the number of items in the original collection.
func (c *Catalog) Len() int { return len(c.items) }

// Item returns the item at identity id by direct positional lookup.
func (c *Catalog) Item(id int) (Item, bool) {
	if id < 0 || id >= len(c.items) {
		return Item{}, false
	}
	return c.items[id], true
}

// Items returns the full collection in original order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Categories lists the distinct category tags present in the data, sorted.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// HasCategory reports whether tag names a category present in the data.
func (c *Catalog) HasCategory(tag string) bool {
	tag = NormalizeFilter(tag)
	if tag == AllCategories {
		return true
	}
	for _, cat := range c.categories {
		if cat == tag {
			return true
		}
	}
	return false
}

// Visible computes the filtered projection: the whole collection for the
// "all" filter, otherwise the sub-sequence matching the category tag in
// original relative order. Each returned item carries its load-time ID, so
// callers never need to re-locate an item by content.
func (c *Catalog) Visible(filter string) []Item {
	filter = NormalizeFilter(filter)
	if filter == AllCategories {
		return c.Items()
	}
	var out []Item
	for _, it := range c.items {
		if it.Category == filter {
			out = append(out, it)
		}
	}
	return out
}

// NormalizeFilter lowercases and trims a filter tag, mapping the empty
// string to the "all" sentinel.
func NormalizeFilter(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return AllCategories
	}
	return tag
}
