package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/security/auth"
	"mercator-hq/notesexport/pkg/server/middleware"
	"mercator-hq/notesexport/pkg/telemetry/health"
	"mercator-hq/notesexport/pkg/telemetry/metrics"
	"mercator-hq/notesexport/pkg/telemetry/tracing"
)

// Options carries the collaborators of a Server. Only Store is required.
type Options struct {
	// Store serves the export routes.
	Store ExportStore

	// Auth protects the export routes. Nil leaves them open.
	Auth *auth.BearerAuthenticator

	// Metrics records HTTP metrics and serves the metrics endpoint when
	// metrics are enabled.
	Metrics *metrics.Collector

	// Health serves the liveness and readiness endpoints when health is
	// enabled.
	Health *health.Checker

	// Version is reported by the version endpoint.
	Version health.VersionInfo

	// Tracer records a server span per request. Nil disables tracing.
	Tracer *tracing.Tracer

	// TLS, when set, makes the server listen with TLS.
	TLS *tls.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the notes export HTTP server.
type Server struct {
	config  *config.Config
	store   ExportStore
	opts    Options
	base    *slog.Logger
	logger  *slog.Logger
	handler http.Handler

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server and builds its handler chain.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: export store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		store:  opts.Store,
		opts:   opts,
		base:   logger,
		logger: logger.With("component", "server"),
	}

	handler, err := s.setupRoutes()
	if err != nil {
		return nil, err
	}
	s.handler = handler

	return s, nil
}

// Handler returns the complete HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until Shutdown is
// called or ctx is cancelled. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	srvCfg := s.config.Server
	s.httpServer = &http.Server{
		Addr:           srvCfg.ListenAddress,
		Handler:        s.handler,
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxHeaderBytes: srvCfg.MaxHeaderBytes,
		TLSConfig:      s.opts.TLS,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	listener, err := net.Listen("tcp", srvCfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.ListenAddress, err)
	}
	if s.opts.TLS != nil {
		listener = tls.NewListener(listener, s.opts.TLS)
	}
	s.listener = listener
	s.isRunning = true
	httpServer := s.httpServer
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		s.logger.Info("context cancelled, initiating shutdown")
		_ = s.Shutdown(context.Background())
	})
	defer stop()

	s.logger.Info("starting notes export server",
		"address", listener.Addr().String(),
		"base_path", srvCfg.BasePath,
		"tls_enabled", s.opts.TLS != nil,
	)

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Addr returns the address the server is listening on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully stops the server, waiting at most
// server.shutdown_timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		httpServer := s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("notes export server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// setupRoutes registers the routes and wraps the mux in the middleware
// chain.
func (s *Server) setupRoutes() (http.Handler, error) {
	mux := http.NewServeMux()

	base := strings.TrimSuffix(s.config.Server.BasePath, "/")
	protect := auth.Middleware(s.opts.Auth, s.writeError)

	mux.Handle("POST "+base+"/notes/export", protect(http.HandlerFunc(s.handleWriteExport)))
	mux.Handle("GET "+base+"/notes/export/node-names", protect(http.HandlerFunc(s.handleNodeNames)))

	telemetry := s.config.Telemetry
	if telemetry.Health.Enabled && s.opts.Health != nil {
		s.opts.Health.Mount(mux, health.Paths{
			Liveness:  telemetry.Health.LivenessPath,
			Readiness: telemetry.Health.ReadinessPath,
			Version:   telemetry.Health.VersionPath,
		}, s.opts.Version)
	}

	var recorder middleware.HTTPRecorder
	if telemetry.Metrics.Enabled && s.opts.Metrics != nil {
		mux.Handle("GET "+telemetry.Metrics.Path, s.opts.Metrics.Handler())
		recorder = s.opts.Metrics
	}

	cors, err := middleware.NewCORS(s.config.Server.CORS)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = mux
	handler = middleware.Metrics(recorder)(handler)
	handler = cors.Handler(handler)
	handler = middleware.Logging(s.base)(handler)
	handler = middleware.Tracing(s.opts.Tracer)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.base, s.writeError)(handler)

	return handler, nil
}
