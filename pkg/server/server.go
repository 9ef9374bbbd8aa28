// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                      liveness probe
//	POST   /v1/layout                    {listing, options} -> layout JSON
//	POST   /v1/render/{format}           {listing, options} or {layout, options} -> artifact
//	GET    /v1/listings                  stored listing summaries
//	PUT    /v1/listings/{id}             store a listing
//	GET    /v1/listings/{id}             fetch a stored listing
//	DELETE /v1/listings/{id}             remove a stored listing
//	GET    /v1/listings/{id}/layout      layout a stored listing (?width=&format=)
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with the machine-readable code from pkg/errors.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/imagerows/pkg/layout"
	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/store"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 8 << 20

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	base    layout.Config
	logger  *log.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(lg *log.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithLayoutConfig sets the base layout configuration requests inherit.
func WithLayoutConfig(cfg layout.Config) Option {
	return func(s *Server) { s.base = cfg }
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server over runner and st.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   st,
		base:    layout.DefaultConfig(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	return s
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", s.handleListListings)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetListing)
				r.Put("/", s.handlePutListing)
				r.Delete("/", s.handleDeleteListing)
				r.Get("/layout", s.handleListingLayout)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed")
	})
	return r
}

// Timeouts are the http.Server timeouts used by ListenAndServe.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, t Timeouts) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
