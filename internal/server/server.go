// Package server is a local stand-in for the orchestration service. It
// serves the same HTTP routes the dashboard calls, backed by SQLite and a
// pluggable responder.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/soyeahso/dugout/internal/config"
	"github.com/soyeahso/dugout/internal/hooks"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/version"
)

// Server is the dugout HTTP service.
type Server struct {
	cfg     config.ServerConfig
	orch    *Orchestrator
	log     *logging.Logger
	hooks   hooks.Emitter
	version string

	httpServer *http.Server
	ready      chan string
}

// Option configures the server.
type Option func(*Server)

// WithHooks sets the hook manager for lifecycle events.
func WithHooks(e hooks.Emitter) Option {
	return func(s *Server) { s.hooks = e }
}

// New creates a server around orch.
func New(cfg config.ServerConfig, orch *Orchestrator, log *logging.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		orch:    orch,
		log:     log.Sub("server"),
		version: version.Version,
		ready:   make(chan string, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.AllowedOrigins)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Ready yields the listen address once the server accepts connections.
func (s *Server) Ready() <-chan string { return s.ready }

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	bound := ln.Addr().String()
	s.log.Info().
		Str("addr", bound).
		Str("bind", s.cfg.Bind).
		Str("responder", s.orch.llm.Name()).
		Msg("server ready")

	if s.hooks != nil {
		s.hooks.Emit(ctx, hooks.EventServerStart, map[string]any{
			"addr":      bound,
			"responder": s.orch.llm.Name(),
		})
	}
	s.ready <- bound

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.log.Info().Msg("shutting down server")
		if s.hooks != nil {
			s.hooks.Emit(context.WithoutCancel(ctx), hooks.EventServerStop, map[string]any{"addr": bound})
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
