// Package main provides the equitysite CLI: the web server plus offline
// tools for rendering pages, taking contact requests in a terminal and
// reading stored submissions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
