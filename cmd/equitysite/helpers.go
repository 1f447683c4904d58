package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite/internal/config"
	"github.com/goliatone/go-equitysite/internal/sqlite"
	"github.com/goliatone/go-equitysite/pkg/content"
)

// loadConfig resolves defaults, the config file, EQUITYSITE_* variables and
// the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	return config.Load(v, flagConfigFile)
}

// loadSite returns the built-in content unless path names a YAML file.
func loadSite(path string) (content.Site, error) {
	if path == "" {
		return content.Default(), nil
	}
	site, err := content.LoadFile(path)
	if err != nil {
		return content.Site{}, fmt.Errorf("load content: %w", err)
	}
	return site, nil
}

// openStore opens the submissions database named by the config. The caller
// must Close it.
func openStore(cfg config.Config) (*sqlite.Store, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open submissions store: %w", err)
	}
	return store, nil
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "equitysite: ", log.LstdFlags)
}
