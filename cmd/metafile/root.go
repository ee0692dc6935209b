package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
	"github.com/aretw0/metafile/internal/config"
)

var (
	verbose        bool
	projectDir     string
	backend        string
	boltPath       string
	metaExt        string
	readOnly       bool
	resetMalformed bool

	// cfg is resolved before every command: environment first, then flags.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metafile",
	Short: "Typed key-value metadata stored in asset user data",
	Long: `metafile reads and writes JSON metadata entries kept in the userData
field of asset meta files (or in a bolt database).

Asset paths are relative to the project directory, which defaults to the
nearest parent holding a .metafile directory or a ProjectSettings + Assets pair.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Parse()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("project") {
			c.Project = projectDir
		} else if c.Project == "." {
			if root, err := metafile.FindProjectRoot(c.Project); err == nil {
				c.Project = root
			}
		}
		if flags.Changed("backend") {
			c.Backend = backend
		}
		if flags.Changed("bolt-path") {
			c.BoltPath = boltPath
		}
		if flags.Changed("meta-ext") {
			c.MetaExt = metaExt
		}
		if flags.Changed("read-only") {
			c.ReadOnly = readOnly
		}
		if flags.Changed("reset-malformed") {
			c.Reset = resetMalformed
		}
		if flags.Changed("verbose") {
			c.Verbose = verbose
		}
		cfg = c

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&projectDir, "project", "p", ".", "Project directory (env METAFILE_PROJECT)")
	flags.StringVar(&backend, "backend", "fs", "Host backend: fs or bolt (env METAFILE_BACKEND)")
	flags.StringVar(&boltPath, "bolt-path", "", "Database file of the bolt backend (env METAFILE_BOLT_PATH)")
	flags.StringVar(&metaExt, "meta-ext", ".meta", "Meta file extension of the fs backend (env METAFILE_META_EXT)")
	flags.BoolVar(&readOnly, "read-only", false, "Reject every mutation (env METAFILE_READ_ONLY)")
	flags.BoolVar(&resetMalformed, "reset-malformed", false, "Treat corrupt user data as empty (env METAFILE_RESET_MALFORMED)")
}
