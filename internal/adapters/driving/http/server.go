// Package http exposes the authorization flow and the payroll check over HTTP.
package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/payroll-check/internal/core/ports/driving"
	"github.com/custodia-labs/payroll-check/internal/obs"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	staticDir  string
	logger     *slog.Logger

	// Services
	oauthService driving.OAuthService
	checkService driving.PayrollCheckService
	authService  driving.AuthService // nil disables operator auth on /check

	// Infrastructure
	backends map[string]Pinger

	limiter *RateLimiter
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// StaticDir is served at / when set.
	StaticDir string

	// RateLimitRPS and RateLimitBurst bound /auth and /callback per client.
	// Zero RPS disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy keys the limiter on X-Forwarded-For.
	TrustProxy bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           10000,
		Version:        "dev",
		RateLimitRPS:   1,
		RateLimitBurst: 10,
	}
}

// Services groups what the server dispatches to.
type Services struct {
	OAuth driving.OAuthService
	Check driving.PayrollCheckService

	// Auth guards /check when set.
	Auth driving.AuthService

	// Backends are pinged by /ready, keyed by name.
	Backends map[string]Pinger

	Logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, svc Services) *Server {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:       http.NewServeMux(),
		version:      cfg.Version,
		staticDir:    cfg.StaticDir,
		logger:       logger,
		oauthService: svc.OAuth,
		checkService: svc.Check,
		authService:  svc.Auth,
		backends:     svc.Backends,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		s.limiter.TrustForwardedFor = cfg.TrustProxy
	}

	s.setupRoutes()

	handler := NewRecoveryMiddleware(logger).Handler(
		RequestID(
			NewLoggingMiddleware(logger).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// route registers h under pattern with metrics labelled by name.
func (s *Server) route(pattern, name string, h http.Handler) {
	s.router.Handle(pattern, obs.Instrument(name, h))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.route("GET /health", "/health", http.HandlerFunc(s.handleHealth))
	s.route("GET /ready", "/ready", http.HandlerFunc(s.handleReady))
	s.route("GET /version", "/version", http.HandlerFunc(s.handleVersion))
	s.router.Handle("GET /metrics", obs.Handler())
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwagger)

	// Authorization flow (browser facing, rate limited)
	s.route("GET /auth", "/auth", s.limit(http.HandlerFunc(s.handleAuth)))
	s.route("GET /callback", "/callback", s.limit(http.HandlerFunc(s.handleCallback)))

	// Payroll check
	var check http.Handler = http.HandlerFunc(s.handleCheck)
	if s.authService != nil {
		check = NewAuthMiddleware(s.authService).Authenticate(check)
	}
	s.route("GET /check", "/check", check)

	if s.staticDir != "" {
		s.router.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}
}

func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Handler(next)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
