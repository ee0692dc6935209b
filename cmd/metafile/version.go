package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/metafile"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of metafile",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "metafile version %s\n", strings.TrimSpace(metafile.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
