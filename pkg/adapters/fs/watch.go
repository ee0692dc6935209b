package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/metafile/pkg/core"
)

// Watch reports changes to meta files of assets matching pattern until ctx is
// done, at which point the returned channel is closed. Writes made through
// Save and CommitAndReprocess are reported like external edits.
func (p *Project) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := p.addDirs(watcher, p.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, 64)
	p.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer p.setWatcherActive(false)
		defer watcher.Close()
		return p.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		p.handleWatchError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

func (p *Project) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			p.config.Logger.Debug("event received", "name", ev.Name, "op", ev.Op.String())

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := p.addDirs(watcher, ev.Name); err != nil {
						p.handleWatchError(err)
					}
					continue
				}
			}

			e, ok := p.mapEvent(ev, pattern)
			if !ok {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.handleWatchError(err)
		}
	}
}

// mapEvent translates a filesystem event on a meta file into a core.Event.
func (p *Project) mapEvent(ev fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, p.config.MetaExt) {
		return core.Event{}, false
	}

	rel, err := filepath.Rel(p.Path, ev.Name)
	if err != nil {
		return core.Event{}, false
	}
	name := strings.TrimSuffix(filepath.ToSlash(rel), p.config.MetaExt)
	if ok, _ := doublestar.Match(pattern, name); !ok {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = core.EventCreate
	case ev.Has(fsnotify.Write):
		t = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Asset: name, Timestamp: time.Now().Unix()}, true
}

// addDirs watches root and every directory below it.
func (p *Project) addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (p *Project) handleWatchError(err error) {
	p.config.Logger.Error("watcher error", "error", err)
	if p.config.ErrorHandler != nil {
		p.config.ErrorHandler(err)
	}
}

func (p *Project) setWatcherActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watcherActive = active
}
