// Package server exposes the editor controller over a local HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-changenotice/components/timezones"
	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/internal/observability"
)

const (
	defaultShutdownGrace = 10 * time.Second
	maxPayloadBytes      = 1 << 20
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger for request logs.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimezones replaces the timezone search component. Its route path is
// mounted under /api.
func WithTimezones(component *timezones.Component) Option {
	return func(s *Server) {
		if component != nil {
			s.timezones = component
		}
	}
}

// WithShutdownGrace bounds how long Run waits for in-flight requests.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownGrace = d
		}
	}
}

// Server serializes every request that touches the document under one
// mutex, so the controller keeps a single writer.
type Server struct {
	mu            sync.Mutex
	editor        *editor.Controller
	logger        *zap.Logger
	timezones     *timezones.Component
	shutdownGrace time.Duration
	router        chi.Router
}

// New builds the server and its routes.
func New(ctrl *editor.Controller, options ...Option) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("server: controller is required")
	}
	s := &Server{
		editor:        ctrl,
		logger:        zap.NewNop(),
		shutdownGrace: defaultShutdownGrace,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.timezones == nil {
		s.timezones = timezones.New()
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() error {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(s.logger))
	router.Use(observability.Recoverer(s.logger))

	var mountErr error
	router.Get("/healthz", s.health)
	router.Route("/api", func(r chi.Router) {
		r.Get("/state", s.state)
		r.Post("/actions/{action}", s.dispatch)
		r.Get("/preview", s.preview)
		r.Get("/export.csv", s.export(editor.ActionExportCSV, "change-schedule.csv"))
		r.Get("/export.ics", s.export(editor.ActionExportICS, "change-schedule.ics"))
		r.Get("/openapi.yaml", s.openapi)
		_, mountErr = s.timezones.Mount(r, "/")
	})
	if mountErr != nil {
		return mountErr
	}
	s.router = router
	return nil
}

// Run serves on addr until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.logger.Info("editor listening", zap.String("addr", addr))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	s.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// run dispatches one action while holding the document lock.
func (s *Server) run(ctx context.Context, name string, payload editor.Payload) (editor.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Run(ctx, name, payload)
}
