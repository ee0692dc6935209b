package fs

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/metafile/pkg/core"
)

// Asset is a core.Asset whose user data lives in a meta file.
//
// SetUserData only edits the in-memory document. Save writes the meta file
// without reprocessing; CommitAndReprocess writes it and then runs the
// project's reprocessor.
type Asset struct {
	project  *Project
	name     string
	metaPath string

	mu      sync.Mutex
	sidecar *sidecar
	dirty   bool
	onDisk  bool
}

// Name returns the asset path relative to the project.
func (a *Asset) Name() string {
	return a.name
}

// MetaPath returns the filesystem path of the asset's meta file.
func (a *Asset) MetaPath() string {
	return a.metaPath
}

// GUID returns the identifier recorded in the meta file.
func (a *Asset) GUID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sidecar.guid()
}

// Dirty reports whether the user data changed since the meta file was written.
func (a *Asset) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

func (a *Asset) UserData(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	data, err := a.sidecar.userData()
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.name, err)
	}
	return data, nil
}

func (a *Asset) SetUserData(ctx context.Context, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.project.config.ReadOnly {
		return core.ErrReadOnly
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if current, err := a.sidecar.userData(); err == nil && current == data && a.onDisk {
		return nil
	}
	a.sidecar.setUserData(data)
	a.dirty = true
	return nil
}

// Save writes the meta file if it has unsaved changes or does not exist yet.
func (a *Asset) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.project.config.ReadOnly {
		return core.ErrReadOnly
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.dirty && a.onDisk {
		return nil
	}

	data, err := a.sidecar.bytes()
	if err != nil {
		return fmt.Errorf("failed to encode meta file for %s: %w", a.name, err)
	}
	if err := writeFileAtomic(a.metaPath, data, 0644); err != nil {
		return err
	}

	a.dirty = false
	a.onDisk = true
	a.project.recordSave()
	return nil
}

func (a *Asset) CommitAndReprocess(ctx context.Context) error {
	if err := a.Save(ctx); err != nil {
		return err
	}
	return a.project.reprocess(ctx, a.name)
}

var _ core.Asset = (*Asset)(nil)
var _ core.Named = (*Asset)(nil)
