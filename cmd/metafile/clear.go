package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
)

var clearCmd = &cobra.Command{
	Use:   "clear <asset> <key>",
	Short: "Remove a metadata entry",
	Long:  `Remove the entry stored under key and commit the asset. Missing entries are not an error.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, key := args[0], args[1]

		ws, asset, err := openAsset(ctx, name)
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := metafile.Clear(ctx, ws.Store, asset, key); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' cleared from %s.\n", key, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
