package platform

import (
	"context"
	"log/slog"
)

// Backend names accepted by WithBackend.
const (
	BackendFS   = "fs"
	BackendBolt = "bolt"
)

// options holds the internal configuration for a workspace.
type options struct {
	host             Host
	logger           *slog.Logger
	backend          string
	metaExt          string
	readOnly         bool
	resetOnMalformed bool
	reprocessor      func(ctx context.Context, name string) error
	errorHandler     func(error)
}

// Option defines a functional option for configuring a workspace.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backend: BackendFS,
	}
}

// WithLogger sets the logger for the store and the host adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHost injects an already opened host (e.g. a mock).
// If provided, the backend selected by WithBackend is skipped.
func WithHost(host Host) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithBackend selects the host adapter by name ("fs" or "bolt").
// Defaults to "fs".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithMetaExt sets the sidecar extension of the fs backend. Defaults to ".meta".
func WithMetaExt(ext string) Option {
	return func(o *options) {
		o.metaExt = ext
	}
}

// WithReadOnly opens the host read-only: every mutation returns core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithResetOnMalformed makes the store treat corrupt user data as empty
// instead of failing. See store.WithResetOnMalformed.
func WithResetOnMalformed(reset bool) Option {
	return func(o *options) {
		o.resetOnMalformed = reset
	}
}

// WithReprocessor registers the hook run after each asset commit.
func WithReprocessor(fn func(ctx context.Context, name string) error) Option {
	return func(o *options) {
		o.reprocessor = fn
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during Watch,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
