package typed

import (
	"context"

	"github.com/aretw0/metafile/pkg/core"
	"github.com/aretw0/metafile/pkg/store"
)

// Entry binds a metadata key to the Go type stored under it, so call sites
// cannot read a key back with a different type than they wrote.
type Entry[T any] struct {
	svc *store.Service
	key string
}

// NewEntry creates a typed handle for key. A nil svc uses store.Default().
func NewEntry[T any](svc *store.Service, key string) *Entry[T] {
	return &Entry[T]{svc: svc, key: key}
}

// Key returns the metadata key the entry is stored under.
func (e *Entry[T]) Key() string {
	return e.key
}

// Get reads the entry from asset, creating it silently with factory when it
// is not stored. See store.Read.
func (e *Entry[T]) Get(ctx context.Context, asset core.Asset, factory store.Factory[T]) (T, error) {
	return store.Read(ctx, e.svc, asset, e.key, factory)
}

// Set stores v on asset and commits it.
func (e *Entry[T]) Set(ctx context.Context, asset core.Asset, v T) error {
	return store.Write(ctx, e.svc, asset, e.key, v)
}

// Clear removes the entry from asset and commits it.
func (e *Entry[T]) Clear(ctx context.Context, asset core.Asset) error {
	return store.Clear(ctx, e.svc, asset, e.key)
}
