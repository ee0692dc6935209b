package bolt

import (
	"context"
	"sync"

	"github.com/aretw0/metafile/pkg/core"
)

// Asset is a core.Asset stored under one key of a Store.
type Asset struct {
	store *Store
	name  string

	mu       sync.Mutex
	userData string
}

func (a *Asset) Name() string {
	return a.name
}

func (a *Asset) UserData(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userData, nil
}

func (a *Asset) SetUserData(ctx context.Context, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.store.readOnly {
		return core.ErrReadOnly
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userData = data
	return nil
}

// Save persists the staged user data without reprocessing the asset.
func (a *Asset) Save(ctx context.Context) error {
	a.mu.Lock()
	data := a.userData
	a.mu.Unlock()
	return a.store.put(ctx, a.name, data)
}

func (a *Asset) CommitAndReprocess(ctx context.Context) error {
	if err := a.Save(ctx); err != nil {
		return err
	}
	return a.store.reprocess(ctx, a.name)
}

var _ core.Asset = (*Asset)(nil)
var _ core.Named = (*Asset)(nil)
