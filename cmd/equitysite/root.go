package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite"
	"github.com/goliatone/go-equitysite/internal/config"
)

// Global flag values.
var (
	flagConfigFile string
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "equitysite",
	Short: "Health equity consultancy website",
	Long: `equitysite serves the consultancy's single-page site with its
navigation header and consultation request form, and stores accepted
requests in SQLite.`,
	Version:       equitysite.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	def := config.Defaults()

	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default: ./equitysite.yaml when present)")
	rootCmd.PersistentFlags().String("db", def.DBPath, "SQLite database for contact submissions")
	rootCmd.PersistentFlags().String("content", "", "site content YAML (default: built-in copy)")
	rootCmd.PersistentFlags().String("templates", "", "directory of page templates overriding the built-in ones file by file")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print machine-readable JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(submissionsCmd)
}
