package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "equitysite v%s\n", equitysite.Version)
	},
}
