package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List assets with stored user data",
	Long: `List assets that have a meta file (fs) or a stored record (bolt).
The optional pattern uses doublestar syntax, e.g. "Assets/**/*.png".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		names, err := ws.Host.List(cmd.Context(), pattern)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
