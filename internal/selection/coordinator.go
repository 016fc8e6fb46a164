// Package selection owns the storefront's session state: the active category
// filter, the comparison set, and the cart. Both sets are keyed by the
// catalog's positional identity, which is what keeps membership stable while
// the visible list is filtered and rebuilt.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"oakfield.org/atelier-web/internal/catalog"
	"oakfield.org/atelier-web/internal/store"
)

// DefaultCompareMax bounds the comparison set.
const DefaultCompareMax = 3

// ErrCompareFull is returned when a compare insert would exceed the maximum.
// The set is left byte-for-byte unchanged.
var ErrCompareFull = errors.New("selection: compare set is full")

// ErrUnknownItem is returned for identities outside the catalog bounds.
var ErrUnknownItem = errors.New("selection: unknown item")

// Coordinator is the single owner of mutable session state. Handlers run
// concurrently under net/http, so a mutex stands in for the browser's single
// thread of control; every operation runs to completion under the lock.
type Coordinator struct {
	mu         sync.Mutex
	cat        *catalog.Catalog
	kv         store.KV
	compareMax int

	filter  string
	compare []int // insertion order
	cart    []int // insertion order, persisted in full after every mutation
}

// New builds a coordinator over the loaded catalog and restores persisted
// cart membership. An absent or malformed cart record reads as empty; it is
// never fatal. Persisted identities outside the catalog bounds are dropped.
func New(ctx context.Context, cat *catalog.Catalog, kv store.KV, compareMax int) *Coordinator {
	if compareMax <= 0 {
		compareMax = DefaultCompareMax
	}
	c := &Coordinator{
		cat:        cat,
		kv:         kv,
		compareMax: compareMax,
		filter:     catalog.AllCategories,
	}
	c.restoreCart(ctx)
	return c
}

func (c *Coordinator) restoreCart(ctx context.Context) {
	if c.kv == nil {
		return
	}
	raw, err := c.kv.Get(ctx, store.KeyCart)
	if err != nil {
		return
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return
	}
	seen := map[int]struct{}{}
	for _, id := range ids {
		if id < 0 || id >= c.cat.Len() {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		c.cart = append(c.cart, id)
	}
}

// SetFilter replaces the active filter and returns the applied value.
// Tags not present in the catalog fall back to "all". Neither selection set
// is touched.
func (c *Coordinator) SetFilter(tag string) string {
	tag = catalog.NormalizeFilter(tag)
	if !c.cat.HasCategory(tag) {
		tag = catalog.AllCategories
	}
	c.mu.Lock()
	c.filter = tag
	c.mu.Unlock()
	return tag
}

// Filter returns the active filter value.
func (c *Coordinator) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Visible returns the filtered projection of the catalog for the active
// filter, in original order, each item carrying its positional identity.
func (c *Coordinator) Visible() []catalog.Item {
	return c.cat.Visible(c.Filter())
}

// ToggleCompare inserts or removes id from the comparison set. Inserting at
// capacity fails with ErrCompareFull and leaves the set unchanged. added
// reports whether the call resulted in an insert.
func (c *Coordinator) ToggleCompare(id int) (added bool, err error) {
	if id < 0 || id >= c.cat.Len() {
		return false, fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.compare, id); i >= 0 {
		c.compare = append(c.compare[:i], c.compare[i+1:]...)
		return false, nil
	}
	if len(c.compare) >= c.compareMax {
		return false, fmt.Errorf("%w (max %d)", ErrCompareFull, c.compareMax)
	}
	c.compare = append(c.compare, id)
	return true, nil
}

// CompareIDs returns the comparison set in insertion order.
func (c *Coordinator) CompareIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.compare))
	copy(out, c.compare)
	return out
}

// InCompare reports membership for id.
func (c *Coordinator) InCompare(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOf(c.compare, id) >= 0
}

// CompareCount returns the current comparison set size.
func (c *Coordinator) CompareCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compare)
}

// CompareMax returns the configured maximum.
func (c *Coordinator) CompareMax() int { return c.compareMax }

// ClearCompare empties the comparison set.
func (c *Coordinator) ClearCompare() {
	c.mu.Lock()
	c.compare = nil
	c.mu.Unlock()
}

// CompareItems resolves the comparison set to items by positional lookup
// into the original collection, in insertion order.
func (c *Coordinator) CompareItems() []catalog.Item {
	return c.resolve(c.CompareIDs())
}

// ToggleCart inserts or removes id from the cart and persists the full
// membership list. Persistence happens under the lock: concurrent toggles
// must write their records in mutation order, or a restart would restore a
// stale snapshot. The store is a local single-connection database, so the
// write is cheap. The set mutation is applied even if persistence fails;
// the error is returned so callers can log it.
func (c *Coordinator) ToggleCart(ctx context.Context, id int) (added bool, err error) {
	if id < 0 || id >= c.cat.Len() {
		return false, fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.cart, id); i >= 0 {
		c.cart = append(c.cart[:i], c.cart[i+1:]...)
	} else {
		c.cart = append(c.cart, id)
		added = true
	}
	return added, c.persistCart(ctx, c.cart)
}

func (c *Coordinator) persistCart(ctx context.Context, ids []int) error {
	if c.kv == nil {
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("selection: encode cart: %w", err)
	}
	if err := c.kv.Set(ctx, store.KeyCart, string(raw)); err != nil {
		return fmt.Errorf("selection: persist cart: %w", err)
	}
	return nil
}

// CartIDs returns cart membership in insertion order.
func (c *Coordinator) CartIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.cart))
	copy(out, c.cart)
	return out
}

// InCart reports membership for id.
func (c *Coordinator) InCart(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOf(c.cart, id) >= 0
}

// CartCount returns the current cart size.
func (c *Coordinator) CartCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cart)
}

// ClearCart empties the cart and removes the persisted record. Like
// ToggleCart, the store write stays under the lock so it cannot interleave
// with a concurrent toggle's persist.
func (c *Coordinator) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = nil
	if c.kv == nil {
		return nil
	}
	if err := c.kv.Delete(ctx, store.KeyCart); err != nil {
		return fmt.Errorf("selection: clear persisted cart: %w", err)
	}
	return nil
}

// CartItems resolves the cart to items in insertion order.
func (c *Coordinator) CartItems() []catalog.Item {
	return c.resolve(c.CartIDs())
}

// CartTotal sums the parsed price of every cart item. Items whose price has
// no numeric token contribute zero; unparsable reports how many were
// skipped so callers can observe the degradation.
func (c *Coordinator) CartTotal() (total float64, unparsable int) {
	for _, it := range c.CartItems() {
		v, ok := catalog.ParsePrice(it.Price)
		if !ok {
			unparsable++
			continue
		}
		total += v
	}
	return total, unparsable
}

func (c *Coordinator) resolve(ids []int) []catalog.Item {
	out := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.cat.Item(id); ok {
			out = append(out, it)
		}
	}
	return out
}

func indexOf(list []int, id int) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
