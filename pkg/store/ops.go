package store

import (
	"context"
	"fmt"

	"github.com/aretw0/metafile/pkg/codec"
	"github.com/aretw0/metafile/pkg/core"
)

// Factory builds the value stored for a key the first time it is read.
// A nil Factory means the caller declines to create anything.
type Factory[T any] func(asset core.Asset) T

// Read returns the value stored under key, decoded as T.
//
// A key that is absent, or present with an empty entry, is treated as not
// stored. In that case a non-nil factory creates the value, which is written
// into the user data silently (the asset is not committed or reprocessed) and
// returned. Without a factory the zero T is returned and the asset is left
// untouched.
//
// A nil s uses Default().
func Read[T any](ctx context.Context, s *Service, asset core.Asset, key string, factory Factory[T]) (T, error) {
	var zero T
	if key == "" {
		return zero, core.ErrEmptyKey
	}
	s = orDefault(s)

	m, err := s.Load(ctx, asset)
	if err != nil {
		return zero, err
	}
	s.reads.Add(1)

	if raw, ok := m[key]; ok && raw != "" {
		v, err := codec.DecodeEntry[T](raw)
		if err != nil {
			return zero, fmt.Errorf("failed to read %q: %w", key, err)
		}
		return v, nil
	}

	if factory == nil {
		return zero, nil
	}

	v := factory(asset)
	raw, err := codec.EncodeEntry(v)
	if err != nil {
		return zero, fmt.Errorf("failed to store default for %q: %w", key, err)
	}
	m[key] = raw

	if err := s.Persist(ctx, asset, m, false); err != nil {
		return zero, err
	}

	s.creates.Add(1)
	s.log().Debug("entry created from factory", "asset", core.AssetName(asset), "key", key)
	return v, nil
}

// Write stores value under key and commits the asset.
// A nil s uses Default().
func Write[T any](ctx context.Context, s *Service, asset core.Asset, key string, value T) error {
	if key == "" {
		return core.ErrEmptyKey
	}
	s = orDefault(s)

	m, err := s.Load(ctx, asset)
	if err != nil {
		return err
	}

	raw, err := codec.EncodeEntry(value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	m[key] = raw

	if err := s.Persist(ctx, asset, m, true); err != nil {
		return err
	}

	s.writes.Add(1)
	s.log().Debug("entry written", "asset", core.AssetName(asset), "key", key)
	return nil
}

// Clear removes key from the asset and commits it.
// A nil s uses Default().
func Clear(ctx context.Context, s *Service, asset core.Asset, key string) error {
	return orDefault(s).Clear(ctx, asset, key)
}
