// Package fs hosts asset user data in YAML meta files next to each asset.
//
// An asset "textures/grass.png" inside a project directory owns the sidecar
// "textures/grass.png.meta". The sidecar carries host settings in importer
// sections; the metadata store only reads and writes the userData scalar of
// the importer section.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/metafile/pkg/core"
)

// DefaultMetaExt is the sidecar extension used when Config.MetaExt is empty.
const DefaultMetaExt = ".meta"

// Config holds the configuration for a filesystem project.
type Config struct {
	Path     string
	MetaExt  string // e.g. ".meta"
	ReadOnly bool
	Logger   *slog.Logger

	// Reprocessor is invoked after an asset is committed, standing in for the
	// host's reimport pipeline. Optional.
	Reprocessor func(ctx context.Context, assetPath string) error

	// ErrorHandler receives runtime watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
}

// Project is a directory of assets and their meta files.
type Project struct {
	Path   string
	config Config

	mu            sync.RWMutex
	saves         int
	commits       int
	watcherActive bool
}

// NewProject creates a new filesystem-backed project. It does no I/O.
func NewProject(config Config) *Project {
	if config.MetaExt == "" {
		config.MetaExt = DefaultMetaExt
	}
	if !strings.HasPrefix(config.MetaExt, ".") {
		config.MetaExt = "." + config.MetaExt
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Project{
		Path:   config.Path,
		config: config,
	}
}

// Initialize checks that the project directory exists.
func (p *Project) Initialize(ctx context.Context) error {
	info, err := os.Stat(p.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("project path does not exist: %s", p.Path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", p.Path)
	}
	return nil
}

// MetaExt returns the sidecar extension, including the leading dot.
func (p *Project) MetaExt() string {
	return p.config.MetaExt
}

// Open loads the asset at assetPath (slash separated, relative to the project).
//
// The asset must exist on disk, either as a file or through its meta file.
// When the meta file is missing, a fresh one is prepared in memory and only
// written by Save or CommitAndReprocess.
func (p *Project) Open(ctx context.Context, assetPath string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := p.cleanAssetPath(assetPath)
	if err != nil {
		return nil, err
	}

	a := &Asset{
		project:  p,
		name:     name,
		metaPath: p.metaPath(name),
	}

	data, err := os.ReadFile(a.metaPath)
	switch {
	case err == nil:
		a.sidecar, err = parseSidecar(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		a.onDisk = true

	case errors.Is(err, os.ErrNotExist):
		if _, statErr := os.Stat(filepath.Join(p.Path, filepath.FromSlash(name))); statErr != nil {
			return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
		}
		a.sidecar = newSidecar()
		p.config.Logger.Debug("prepared new meta file", "asset", name, "guid", a.sidecar.guid())

	default:
		return nil, fmt.Errorf("failed to read meta file for %s: %w", name, err)
	}

	return a, nil
}

// List returns the assets that have a meta file and match pattern, sorted.
// Pattern uses doublestar syntax against the slash separated asset path;
// an empty pattern matches every asset.
func (p *Project) List(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %q", pattern)
	}

	metas, err := doublestar.Glob(os.DirFS(p.Path), "**/*"+p.config.MetaExt, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	var assets []string
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(m, p.config.MetaExt)
		if name == "" || strings.HasPrefix(path.Base(m), TempFilePrefix) {
			continue
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			assets = append(assets, name)
		}
	}
	slices.Sort(assets)
	return assets, nil
}

func (p *Project) cleanAssetPath(assetPath string) (string, error) {
	name := path.Clean(filepath.ToSlash(assetPath))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") || path.IsAbs(name) {
		return "", fmt.Errorf("invalid asset path: %q", assetPath)
	}
	if strings.HasSuffix(name, p.config.MetaExt) {
		return "", fmt.Errorf("invalid asset path: %q is a meta file", assetPath)
	}
	return name, nil
}

func (p *Project) metaPath(name string) string {
	return filepath.Join(p.Path, filepath.FromSlash(name)+p.config.MetaExt)
}

func (p *Project) recordSave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
}

// reprocess hands a committed asset to the configured pipeline.
func (p *Project) reprocess(ctx context.Context, name string) error {
	p.mu.Lock()
	p.commits++
	p.mu.Unlock()

	p.config.Logger.Debug("reprocessing asset", "asset", name)
	if p.config.Reprocessor == nil {
		return nil
	}
	if err := p.config.Reprocessor(ctx, name); err != nil {
		return fmt.Errorf("reprocess %s: %w", name, err)
	}
	return nil
}
