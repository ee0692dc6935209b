// Package config loads the command line defaults from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every metafile command.
// Flags given on the command line take precedence over these values.
type Config struct {
	Project  string `env:"METAFILE_PROJECT" envDefault:"."`
	Backend  string `env:"METAFILE_BACKEND" envDefault:"fs"`
	BoltPath string `env:"METAFILE_BOLT_PATH" envDefault:""`
	MetaExt  string `env:"METAFILE_META_EXT" envDefault:".meta"`
	ReadOnly bool   `env:"METAFILE_READ_ONLY" envDefault:"false"`
	Reset    bool   `env:"METAFILE_RESET_MALFORMED" envDefault:"false"`
	Verbose  bool   `env:"METAFILE_VERBOSE" envDefault:"false"`
}

// Parse reads the configuration from environment variables.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return &cfg, nil
}

// URI returns the location handed to the selected backend.
// The bolt backend defaults to "metafile.db" inside the project directory.
func (c *Config) URI() string {
	if c.Backend != "bolt" {
		return c.Project
	}
	if c.BoltPath != "" {
		return c.BoltPath
	}
	return filepath.Join(c.Project, "metafile.db")
}
