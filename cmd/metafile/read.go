package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
)

var (
	readDefault string
	readRaw     bool
)

var readCmd = &cobra.Command{
	Use:   "read <asset> <key>",
	Short: "Read a metadata entry",
	Long: `Read the entry stored under key and print it as JSON.

With --default, a missing entry is created from the given JSON and the meta
file is saved without reprocessing the asset.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, key := args[0], args[1]

		var factory metafile.Factory[json.RawMessage]
		if cmd.Flags().Changed("default") {
			if !json.Valid([]byte(readDefault)) {
				return fmt.Errorf("--default is not valid JSON: %s", readDefault)
			}
			factory = func(metafile.Asset) json.RawMessage {
				return json.RawMessage(readDefault)
			}
		}

		ws, asset, err := openAsset(ctx, name)
		if err != nil {
			return err
		}
		defer ws.Close()

		_, existed, err := ws.Store.Lookup(ctx, asset, key)
		if err != nil {
			return err
		}

		v, err := metafile.Read(ctx, ws.Store, asset, key, factory)
		if err != nil {
			return err
		}
		if !existed && factory == nil {
			return fmt.Errorf("no entry %q on %s", key, name)
		}
		if !existed {
			if err := asset.Save(ctx); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if readRaw {
			fmt.Fprintln(out, string(v))
			return nil
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, v, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(out, buf.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVar(&readDefault, "default", "", "JSON value stored when the entry is missing")
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Print the entry exactly as stored")
}
