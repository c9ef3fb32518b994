// Package server runs the periscan HTTP API. It owns the analysis
// pipeline and rebuilds it when provider configuration changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/periscan/periscan/internal/api"
	"github.com/periscan/periscan/internal/backoff"
	"github.com/periscan/periscan/internal/config"
	"github.com/periscan/periscan/internal/extract"
	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/ocr"
	"github.com/periscan/periscan/internal/pdftext"
	"github.com/periscan/periscan/internal/providers"
	"github.com/periscan/periscan/internal/render"
	"github.com/periscan/periscan/internal/server/endpoints"
	"github.com/periscan/periscan/internal/svcctx"
)

// Server is the periscan HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	mu       sync.RWMutex
	services *svcctx.Services
	running  bool

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry
}

// Config holds server configuration.
type Config struct {
	// Addr is the address to listen on (default from config manager).
	Addr string
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// Home locates the render artifact directory.
	Home *home.Dir
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Home == nil {
		return nil, errors.New("home dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = cfg.ConfigManager.Get().Server.Addr
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	// Build the pipeline from current config, rebuild on hot reload.
	// The swap applies to the next document analyzed.
	s.setServices(cfg.ConfigManager.Get())
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.setServices(c)
		cfg.Logger.Info("pipeline rebuilt from config",
			"provider", c.Vision.Provider, "model", c.Vision.Model)
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withServices(mux),
		ReadTimeout:  5 * time.Minute, // large PDF uploads
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setServices builds the analysis pipeline for the given config and
// swaps it into the request context services.
func (s *Server) setServices(c *config.Config) {
	pipeline := BuildPipeline(c, s.home, s.logger)

	s.mu.Lock()
	s.services = &svcctx.Services{
		Pipeline: pipeline,
		Config:   s.configMgr,
		Home:     s.home,
		Logger:   s.logger,
	}
	s.mu.Unlock()
}

// BuildPipeline assembles the document analysis pipeline from config.
func BuildPipeline(c *config.Config, hd *home.Dir, logger *slog.Logger) *extract.Pipeline {
	var client providers.VisionClient
	apiKey := c.ResolvedAPIKey()
	if c.Vision.Provider == "passthrough" || apiKey == "" {
		client = providers.NewPassthroughClient()
	} else {
		client = providers.NewOpenAIVisionClient(providers.OpenAIVisionConfig{
			APIKey:  apiKey,
			Model:   c.Vision.Model,
			BaseURL: c.Vision.BaseURL,
			Timeout: time.Duration(c.Vision.TimeoutSeconds) * time.Second,
		})
	}

	var limiter *providers.RateLimiter
	if c.Vision.RateLimit > 0 {
		limiter = providers.NewRateLimiter(int(c.Vision.RateLimit))
	}

	policy := backoff.New(providers.IsRateLimited)
	if c.Vision.MaxRetries > 0 {
		policy.MaxRetries = c.Vision.MaxRetries
	}

	return extract.NewPipeline(extract.PipelineConfig{
		Chain: pdftext.NewChain(logger),
		Renderer: render.NewRenderer(render.Config{
			ScaleToX:    c.Render.ScaleToX,
			JPEGQuality: c.Render.JPEGQuality,
			Home:        hd,
			Logger:      logger,
		}),
		Ocr: ocr.New(ocr.Config{
			Client:  client,
			Limiter: limiter,
			Policy:  &policy,
			Logger:  logger,
		}),
		Home:           hd,
		MaxRenderPages: c.Render.MaxPages,
		KeepArtifacts:  c.Render.KeepArtifacts,
		Logger:         logger,
	})
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.home.EnsureExists(); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to prepare home directory: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()

		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the pipeline isn't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.PipelineFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
