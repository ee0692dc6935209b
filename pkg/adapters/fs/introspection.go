package fs

import (
	"github.com/aretw0/introspection"
)

// ProjectState exposes internal state for observability.
type ProjectState struct {
	Path          string `json:"path"`
	MetaExt       string `json:"meta_ext"`
	ReadOnly      bool   `json:"read_only"`
	WatcherActive bool   `json:"watcher_active"`
	Saves         int    `json:"saves"`
	Commits       int    `json:"commits"`
}

// State implements introspection.Introspectable.
func (p *Project) State() any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProjectState{
		Path:          p.Path,
		MetaExt:       p.config.MetaExt,
		ReadOnly:      p.config.ReadOnly,
		WatcherActive: p.watcherActive,
		Saves:         p.saves,
		Commits:       p.commits,
	}
}

// ComponentType implements introspection.Component.
func (p *Project) ComponentType() string {
	return "fs-project"
}

var _ introspection.Introspectable = (*Project)(nil)
var _ introspection.Component = (*Project)(nil)
