// Package server serves the site over HTTP. Every visitor gets a session
// holding its own page, header and contact form; requests are translated into
// the events those components understand and answered with a fragment, a
// redirect or JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/content"
	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/nav"
	"github.com/goliatone/go-equitysite/pkg/openapi"
	"github.com/goliatone/go-equitysite/pkg/render"
	"github.com/goliatone/go-equitysite/pkg/renderers/jsonview"
	"github.com/goliatone/go-equitysite/pkg/renderers/site"
)

const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Server wires content, renderers and sessions into an http.Handler.
type Server struct {
	site     content.Site
	tree     *nav.Tree
	registry *render.Registry
	html     render.Renderer
	json     render.Renderer
	contract *openapi.Contract
	theme    *theme.RendererConfig
	sessions *SessionStore

	sink       contact.Sink
	clock      clockwork.Clock
	logger     *log.Logger
	ttl        time.Duration
	resetDelay time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests, submissions and evictions.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock drives sessions, sweeps and form resets.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSink sets where accepted contact requests go.
func WithSink(sink contact.Sink) Option {
	return func(s *Server) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithTheme applies a resolved theme to every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithResetDelay overrides how long the contact confirmation stays up.
func WithResetDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.resetDelay = d
		}
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// New validates siteContent and builds a server.
func New(siteContent content.Site, options ...Option) (*Server, error) {
	if err := siteContent.Validate(); err != nil {
		return nil, err
	}
	tree, err := siteContent.NavTree()
	if err != nil {
		return nil, err
	}
	contract, err := openapi.Default()
	if err != nil {
		return nil, err
	}

	s := &Server{
		site:       siteContent,
		tree:       tree,
		json:       jsonview.New(false),
		contract:   contract,
		sink:       contact.Discard,
		clock:      clockwork.NewRealClock(),
		logger:     log.New(io.Discard, "", 0),
		ttl:        DefaultSessionTTL,
		resetDelay: contact.ResetDelay,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.html == nil {
		html, err := site.New()
		if err != nil {
			return nil, err
		}
		s.html = html
	}

	s.registry = render.NewRegistry()
	if err := s.registry.Register(s.html); err != nil {
		return nil, err
	}
	if err := s.registry.Register(s.json); err != nil {
		return nil, err
	}

	s.sessions = NewSessionStore(s.ttl, s.clock, s.logger, s.newComponents)
	return s, nil
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

func (s *Server) newComponents(clock clockwork.Clock) (*dom.Page, *nav.Header, *contact.Form, error) {
	page := dom.NewPage(
		dom.WithClock(clock),
		dom.WithAnchors(s.site.AnchorIDs()...),
	)
	header := nav.NewHeader(s.tree)
	if err := header.Mount(page); err != nil {
		return nil, nil, nil, err
	}

	logged := contact.SinkFunc(func(_ context.Context, sub contact.Submission) error {
		s.logger.Printf("contact request %s received (%s, %s)", sub.ID, sub.Data.Service, sub.Data.Urgency)
		return nil
	})
	form := contact.NewForm(
		contact.WithClock(clock),
		contact.WithScheduler(page),
		contact.WithResetDelay(s.resetDelay),
		contact.WithSink(contact.Tee(s.sink, logged)),
	)
	return page, header, form, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(site.AssetsFS()))))
	r.Get("/api/nav", s.handleNavTree)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/", s.handlePage)
		r.Get("/api/state", s.handleState)

		r.Group(func(r chi.Router) {
			r.Use(s.csrfMiddleware)
			r.Post("/contact", s.handleContactSubmit)
			r.Post("/contact/fields/{field}", s.handleContactField)
			r.Post("/nav/menu", s.handleMenuToggle)
			r.Post("/nav/cta", s.handleCallToAction)
			r.Post("/nav/{id}/{action}", s.handleNavAction)
			r.Post("/events/scroll", s.handleScroll)
			r.Post("/events/click", s.handleClick)
			r.Post("/api/contact", s.handleAPIContact)
			r.Delete("/session", s.handleEndSession)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down within grace.
func (s *Server) Run(ctx context.Context, addr string, sweep, grace time.Duration) error {
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, sweep)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Printf("server stopped")
	return nil
}
