package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite/pkg/nav"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Print the navigation tree",
	Long: `Print the navigation entries with their anchors.

Example:
  equitysite nav
  equitysite nav --json`,
	RunE: runNav,
}

func runNav(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	site, err := loadSite(cfg.ContentFile)
	if err != nil {
		return err
	}
	tree, err := site.NavTree()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		data, err := json.MarshalIndent(tree.Entries(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal nav: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	printEntries(out, tree.Entries(), 0)
	return nil
}

func printEntries(w io.Writer, entries []nav.Entry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, entry := range entries {
		if entry.HasChildren() {
			fmt.Fprintf(w, "%s%s (%s)\n", indent, entry.Label, entry.ID)
			printEntries(w, entry.Children, depth+1)
			continue
		}
		fmt.Fprintf(w, "%s%s (%s) -> %s\n", indent, entry.Label, entry.ID, entry.Anchor)
	}
}
