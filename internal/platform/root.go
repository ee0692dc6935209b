package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// MarkerDir flags a project root explicitly.
const MarkerDir = ".metafile"

// ErrRootNotFound is returned by FindRoot when no ancestor looks like a project.
var ErrRootNotFound = errors.New("project root not found")

// FindRoot walks upwards from startDir looking for a project root.
// Indicators are: a .metafile directory, or a ProjectSettings directory
// next to an Assets directory (the layout asset hosts create).
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(dir, MarkerDir) || (isDir(dir, "ProjectSettings") && isDir(dir, "Assets")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func isDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
