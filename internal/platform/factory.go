package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/metafile/pkg/adapters/bolt"
	"github.com/aretw0/metafile/pkg/adapters/fs"
	"github.com/aretw0/metafile/pkg/store"
)

// Workspace pairs an opened host with the store service configured for it.
type Workspace struct {
	Host  Host
	Store *store.Service
}

// Close releases the host.
func (w *Workspace) Close() error {
	return w.Host.Close()
}

// New opens a host and wires the store service on top of it.
//
//	ws, err := metafile.New("./MyGame", metafile.WithBackend("bolt"))
//
// The URI argument is backend-specific: the project directory for "fs",
// the database file for "bolt".
func New(uri string, opts ...Option) (*Workspace, error) {
	host, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	svcOpts := []store.Option{store.WithResetOnMalformed(o.resetOnMalformed)}
	if o.logger != nil {
		svcOpts = append(svcOpts, store.WithLogger(o.logger))
	}

	return &Workspace{
		Host:  host,
		Store: store.NewService(svcOpts...),
	}, nil
}

// Init opens the host selected by the options without wiring a store service.
func Init(uri string, opts ...Option) (Host, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.host != nil {
		return o.host, nil
	}

	switch o.backend {
	case BackendFS:
		return initFS(uri, o)
	case BackendBolt:
		return initBolt(uri, o)
	default:
		return nil, fmt.Errorf("unknown backend: %s", o.backend)
	}
}

func initFS(uri string, o *options) (Host, error) {
	path, err := filepath.Abs(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	project := fs.NewProject(fs.Config{
		Path:         path,
		MetaExt:      o.metaExt,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		Reprocessor:  o.reprocessor,
		ErrorHandler: o.errorHandler,
	})
	if err := project.Initialize(context.Background()); err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("opened project", "path", path, "meta_ext", project.MetaExt(), "read_only", o.readOnly)
	}
	return fsHost{project}, nil
}

func initBolt(uri string, o *options) (Host, error) {
	if uri == "" {
		return nil, fmt.Errorf("bolt backend requires a database path")
	}

	boltOpts := []bolt.Option{
		bolt.WithReadOnly(o.readOnly),
		bolt.WithReprocessor(o.reprocessor),
	}
	if o.logger != nil {
		boltOpts = append(boltOpts, bolt.WithLogger(o.logger))
	}

	db, err := bolt.Open(uri, boltOpts...)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("opened database", "path", uri, "read_only", o.readOnly)
	}
	return boltHost{db}, nil
}
