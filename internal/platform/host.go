package platform

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metafile/pkg/adapters/bolt"
	"github.com/aretw0/metafile/pkg/adapters/fs"
	"github.com/aretw0/metafile/pkg/core"
)

// Asset is a host asset that can also be saved without reprocessing,
// which persists defaults created silently by store.Read.
type Asset interface {
	core.Asset
	core.Named
	Save(ctx context.Context) error
}

// Host opens the assets of one backend.
type Host interface {
	// Asset opens the asset identified by name.
	Asset(ctx context.Context, name string) (Asset, error)

	// List returns the names of assets with stored user data matching a
	// doublestar pattern ("" matches all), sorted.
	List(ctx context.Context, pattern string) ([]string, error)

	// Close releases the host's resources.
	Close() error
}

// Watchable is implemented by hosts that can report user data changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan core.Event, error)
}

type fsHost struct {
	*fs.Project
}

func (h fsHost) Asset(ctx context.Context, name string) (Asset, error) {
	a, err := h.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (h fsHost) Close() error { return nil }

type boltHost struct {
	*bolt.Store
}

func (h boltHost) Asset(ctx context.Context, name string) (Asset, error) {
	a, err := h.Store.Asset(ctx, name)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (h boltHost) List(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %q", pattern)
	}

	names, err := h.Names(ctx)
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, n := range names {
		if ok, _ := doublestar.Match(pattern, n); ok {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

var (
	_ Host      = fsHost{}
	_ Watchable = fsHost{}
	_ Host      = boltHost{}
)
