package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/metafile"
)

func openWorkspace() (*metafile.Workspace, error) {
	ws, err := metafile.New(cfg.URI(),
		metafile.WithBackend(cfg.Backend),
		metafile.WithMetaExt(cfg.MetaExt),
		metafile.WithReadOnly(cfg.ReadOnly),
		metafile.WithResetOnMalformed(cfg.Reset),
		metafile.WithLogger(slog.Default()),
		metafile.WithReprocessor(func(ctx context.Context, name string) error {
			slog.Debug("asset reprocessed", "asset", name)
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s project: %w", cfg.Backend, err)
	}
	return ws, nil
}

// openAsset opens the workspace and one of its assets. The returned workspace
// must be closed by the caller.
func openAsset(ctx context.Context, name string) (*metafile.Workspace, metafile.HostAsset, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, nil, err
	}
	asset, err := ws.Host.Asset(ctx, name)
	if err != nil {
		_ = ws.Close()
		return nil, nil, err
	}
	return ws, asset, nil
}
