package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys <asset>",
	Short: "List the metadata keys of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ws, asset, err := openAsset(ctx, args[0])
		if err != nil {
			return err
		}
		defer ws.Close()

		keys, err := ws.Store.Keys(ctx, asset)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
