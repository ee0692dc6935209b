package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
	"github.com/aretw0/metafile/pkg/adapters/lifecycle"
	"github.com/aretw0/metafile/pkg/core"
)

var (
	watchTypes    []string
	watchCoalesce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print meta file changes until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		types, err := parseEventTypes(watchTypes)
		if err != nil {
			return err
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		w, ok := ws.Host.(metafile.Watchable)
		if !ok {
			return fmt.Errorf("the %s backend does not support watching", cfg.Backend)
		}

		events, err := w.Watch(ctx, pattern)
		if err != nil {
			return err
		}

		src := lifecycle.NewSource(events,
			lifecycle.WithTypes(types...),
			lifecycle.WithCoalesce(watchCoalesce),
		)
		if err := src.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching for changes", "project", cfg.Project, "pattern", pattern)
		for ev := range src.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), ev.String())
		}
		slog.Debug("watch stopped", "state", src.State())
		return nil
	},
}

func parseEventTypes(names []string) ([]core.EventType, error) {
	var types []core.EventType
	for _, n := range names {
		t := core.EventType(strings.ToUpper(strings.TrimSpace(n)))
		switch t {
		case core.EventCreate, core.EventModify, core.EventDelete:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown event type: %q", n)
		}
	}
	return types, nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchTypes, "types", nil, "Only report these event types (create, modify, delete)")
	watchCmd.Flags().DurationVar(&watchCoalesce, "coalesce", 250*time.Millisecond, "Drop repeated events for an asset within this window (0 disables)")
}
