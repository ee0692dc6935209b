package metafile

import (
	"context"
	"log/slog"

	"github.com/aretw0/metafile/internal/platform"
	"github.com/aretw0/metafile/pkg/core"
	"github.com/aretw0/metafile/pkg/store"
	"github.com/aretw0/metafile/pkg/typed"
)

// --- Types ---

// Asset is the host contract the store reads and writes through.
type Asset = core.Asset

// Metadata is the decoded form of a user data field.
type Metadata = core.Metadata

// Factory builds the value stored for a key the first time it is read.
type Factory[T any] = store.Factory[T]

// Entry is a typed handle on one metadata key.
type Entry[T any] = typed.Entry[T]

// Service carries the policies shared by the store operations.
type Service = store.Service

// Workspace pairs an opened host with its store service.
type Workspace = platform.Workspace

// Host opens the assets of one backend.
type Host = platform.Host

// HostAsset is an asset opened from a Host.
type HostAsset = platform.Asset

// Watchable is implemented by hosts that report user data changes.
type Watchable = platform.Watchable

// --- Errors ---

var (
	ErrMalformedStore  = core.ErrMalformedStore
	ErrDecode          = core.ErrDecode
	ErrUnsupportedType = core.ErrUnsupportedType
	ErrEmptyKey        = core.ErrEmptyKey
	ErrReadOnly        = core.ErrReadOnly
	ErrAssetNotFound   = core.ErrAssetNotFound
)

// --- Configuration ---

// Option defines a functional option for configuring a workspace.
type Option = platform.Option

// WithLogger sets the logger for the store and the host.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHost injects a custom host.
func WithHost(host Host) Option {
	return platform.WithHost(host)
}

// WithBackend selects the host by name: "fs" (default) or "bolt".
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithMetaExt sets the sidecar extension of the fs backend.
func WithMetaExt(ext string) Option {
	return platform.WithMetaExt(ext)
}

// WithReadOnly rejects every mutation with ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithResetOnMalformed treats corrupt user data as empty instead of failing.
func WithResetOnMalformed(reset bool) Option {
	return platform.WithResetOnMalformed(reset)
}

// WithReprocessor registers the hook run after each asset commit.
func WithReprocessor(fn func(ctx context.Context, name string) error) Option {
	return platform.WithReprocessor(fn)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens a host and wires a store service for it.
func New(uri string, opts ...Option) (*Workspace, error) {
	return platform.New(uri, opts...)
}

// Init opens a host without a store service.
func Init(uri string, opts ...Option) (Host, error) {
	return platform.Init(uri, opts...)
}

// FindProjectRoot looks upwards from startDir for a project root.
func FindProjectRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Operations ---

// Read returns the value stored under key, creating it silently with factory
// when absent. A nil s uses the default service.
func Read[T any](ctx context.Context, s *Service, asset Asset, key string, factory Factory[T]) (T, error) {
	return store.Read(ctx, s, asset, key, factory)
}

// Write stores value under key and commits the asset.
func Write[T any](ctx context.Context, s *Service, asset Asset, key string, value T) error {
	return store.Write(ctx, s, asset, key, value)
}

// Clear removes key from the asset and commits it.
func Clear(ctx context.Context, s *Service, asset Asset, key string) error {
	return store.Clear(ctx, s, asset, key)
}

// NewEntry creates a typed handle for key.
func NewEntry[T any](s *Service, key string) *Entry[T] {
	return typed.NewEntry[T](s, key)
}
