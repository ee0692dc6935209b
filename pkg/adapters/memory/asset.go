// Package memory provides an in-process host for metadata stores.
//
// It is the reference implementation of core.Asset: user data lives in a
// string field, commits snapshot that field and optionally call a hook.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/metafile/pkg/core"
)

// Asset is an in-memory core.Asset.
type Asset struct {
	mu        sync.Mutex
	name      string
	userData  string
	committed string
	writes    int
	commits   int

	// OnCommit, if set, is called after each commit with the committed field.
	// A returned error fails the commit.
	OnCommit func(ctx context.Context, userData string) error
}

// NewAsset creates an asset whose user data starts as userData.
func NewAsset(name, userData string) *Asset {
	return &Asset{
		name:      name,
		userData:  userData,
		committed: userData,
	}
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
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userData = data
	a.writes++
	return nil
}

func (a *Asset) CommitAndReprocess(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	data := a.userData
	hook := a.OnCommit
	a.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, data); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.committed = data
	a.commits++
	return nil
}

// Committed returns the user data as of the last commit.
func (a *Asset) Committed() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.committed
}

// Commits returns how many times the asset was committed and reprocessed.
func (a *Asset) Commits() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commits
}

// Writes returns how many times the user data was set, committed or not.
func (a *Asset) Writes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writes
}

var _ core.Asset = (*Asset)(nil)
var _ core.Named = (*Asset)(nil)
