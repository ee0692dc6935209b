package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <asset> <key> [json]",
	Short: "Write a metadata entry",
	Long: `Store a JSON value under key and commit the asset.
The value is read from standard input when not given as an argument.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, key := args[0], args[1]

		var value []byte
		if len(args) == 3 {
			value = []byte(args[2])
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}
			value = bytes.TrimSpace(data)
		}
		if !json.Valid(value) {
			return fmt.Errorf("value is not valid JSON: %s", value)
		}

		ws, asset, err := openAsset(ctx, name)
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := metafile.Write(ctx, ws.Store, asset, key, json.RawMessage(value)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' written to %s.\n", key, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
}
