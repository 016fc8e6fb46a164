// Package store provides the key-value persistence the storefront keeps
// between sessions: the serialized cart membership and the theme preference.
package store

import (
	"context"
	"errors"
)

// Keys used by the storefront. The store itself is key-agnostic.
const (
	KeyCart  = "cart"
	KeyTheme = "theme"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// KV is the persistence contract consumed by the selection coordinator.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
