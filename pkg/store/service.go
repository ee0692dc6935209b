// Package store implements the read-or-create, write and clear operations over
// the metadata map kept in an asset's user data field.
//
// Every operation is one complete cycle: decode the whole map from the host
// field, act on one entry, and for mutations re-encode the whole map and hand
// it back to the host. Nothing is cached between calls, and no locking is
// done: two interleaved writers on the same asset overwrite each other's map.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/aretw0/metafile/pkg/codec"
	"github.com/aretw0/metafile/pkg/core"
)

// Service carries the policies shared by the store operations.
type Service struct {
	logger           *slog.Logger
	resetOnMalformed bool

	reads   atomic.Int64
	creates atomic.Int64
	writes  atomic.Int64
	clears  atomic.Int64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the service. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithResetOnMalformed selects the policy for a corrupt user data field.
//
// By default a field that is not a JSON object of strings fails every
// operation with core.ErrMalformedStore. When enabled, the field is logged
// and treated as empty instead, so the next mutation overwrites it.
func WithResetOnMalformed(reset bool) Option {
	return func(s *Service) {
		s.resetOnMalformed = reset
	}
}

// NewService creates a new Service.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultService = NewService()

// Default returns the service used when operations are given a nil *Service.
func Default() *Service {
	return defaultService
}

func orDefault(s *Service) *Service {
	if s == nil {
		return defaultService
	}
	return s
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Load decodes the asset's user data into a fresh metadata map.
func (s *Service) Load(ctx context.Context, asset core.Asset) (core.Metadata, error) {
	field, err := asset.UserData(ctx)
	if err != nil {
		err = fmt.Errorf("failed to read user data: %w", err)
		return s.resetIfMalformed(asset, err)
	}

	m, err := codec.DecodeMap(field)
	if err != nil {
		return s.resetIfMalformed(asset, err)
	}
	return m, nil
}

// resetIfMalformed applies the malformed-field policy to a load failure.
// Hosts report a user data field they cannot represent as a string with
// core.ErrMalformedStore too.
func (s *Service) resetIfMalformed(asset core.Asset, err error) (core.Metadata, error) {
	if s.resetOnMalformed && errors.Is(err, core.ErrMalformedStore) {
		s.log().Warn("discarding malformed user data", "asset", core.AssetName(asset), "error", err)
		return make(core.Metadata), nil
	}
	return nil, err
}

// Persist encodes m into the asset's user data. When commit is false the
// write is silent: the host is not asked to commit or reprocess the asset.
func (s *Service) Persist(ctx context.Context, asset core.Asset, m core.Metadata, commit bool) error {
	field, err := codec.EncodeMap(m)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := asset.SetUserData(ctx, field); err != nil {
		return fmt.Errorf("failed to set user data: %w", err)
	}

	if !commit {
		return nil
	}

	if err := asset.CommitAndReprocess(ctx); err != nil {
		return fmt.Errorf("failed to commit asset: %w", err)
	}
	s.log().Debug("asset committed", "asset", core.AssetName(asset), "entries", len(m))
	return nil
}

// Clear removes key from the asset's metadata and commits the asset.
// Clearing a key that is not stored is not an error.
func (s *Service) Clear(ctx context.Context, asset core.Asset, key string) error {
	if key == "" {
		return core.ErrEmptyKey
	}

	m, err := s.Load(ctx, asset)
	if err != nil {
		return err
	}

	delete(m, key)
	if err := s.Persist(ctx, asset, m, true); err != nil {
		return err
	}

	s.clears.Add(1)
	s.log().Debug("entry cleared", "asset", core.AssetName(asset), "key", key)
	return nil
}

// Lookup returns the raw JSON entry stored under key. ok is false when the key
// is absent or its entry is empty.
func (s *Service) Lookup(ctx context.Context, asset core.Asset, key string) (raw string, ok bool, err error) {
	if key == "" {
		return "", false, core.ErrEmptyKey
	}

	m, err := s.Load(ctx, asset)
	if err != nil {
		return "", false, err
	}
	raw = m[key]
	return raw, raw != "", nil
}

// Keys returns the keys stored on the asset, sorted.
func (s *Service) Keys(ctx context.Context, asset core.Asset) ([]string, error) {
	m, err := s.Load(ctx, asset)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
