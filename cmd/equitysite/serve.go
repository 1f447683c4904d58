package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite/internal/config"
	"github.com/goliatone/go-equitysite/internal/server"
	"github.com/goliatone/go-equitysite/pkg/render"
	"github.com/goliatone/go-equitysite/pkg/renderers/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Serve the site over HTTP. Each visitor gets a server-side session
holding their header and contact form state; accepted requests are written
to the SQLite store.

Example:
  equitysite serve --addr :8080 --db data/submissions.db
  EQUITYSITE_THEME_VARIANT=dark equitysite serve
  equitysite serve --templates ./site-templates`,
	RunE: runServe,
}

func init() {
	def := config.Defaults()
	f := serveCmd.Flags()
	f.String("addr", def.Addr, "listen address")
	f.Duration("session-ttl", def.SessionTTL, "idle time before a session is evicted")
	f.Duration("sweep-interval", def.SweepInterval, "how often idle sessions are swept")
	f.String("theme", def.ThemeVariant, "theme variant (dark, high-contrast)")
	f.Duration("shutdown-grace", def.ShutdownGrace, "time allowed for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	siteContent, err := loadSite(cfg.ContentFile)
	if err != nil {
		return err
	}
	html, err := site.New(site.WithTemplatesDir(cfg.TemplatesDir))
	if err != nil {
		return err
	}
	themeCfg, err := render.ResolveTheme(render.DefaultThemeManifest(), cfg.ThemeVariant)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := newLogger()
	srv, err := server.New(siteContent,
		server.WithLogger(logger),
		server.WithRenderer(html),
		server.WithSink(store),
		server.WithTheme(themeCfg),
		server.WithSessionTTL(cfg.SessionTTL),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Addr, cfg.SweepInterval, cfg.ShutdownGrace)
}
