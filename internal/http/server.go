package http

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/http/handler"
)

// Defaults applied when a config value is zero.
const (
	DefaultMaxHeaderBytes = 1 << 20
	DefaultMaxBodyBytes   = 1 << 20
)

// APIServer wraps the HTTP server with router and all HTTP concerns.
type APIServer struct {
	server *http.Server
}

// NewAPIServer builds the router for server, wraps it in OpenTelemetry
// instrumentation and configures timeouts from cfg.
func NewAPIServer(server *handler.Server, cfg config.HTTPConfig) *APIServer {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	router := NewRouter(server, maxBody)
	instrumented := otelhttp.NewHandler(router, "taskmaster.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return &APIServer{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           instrumented,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			MaxHeaderBytes:    DefaultMaxHeaderBytes,
		},
	}
}

// Start blocks serving requests until Shutdown is called.
// It returns http.ErrServerClosed after a clean shutdown.
func (s *APIServer) Start() error {
	slog.Info("starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
// The provided context controls the timeout for outstanding requests.
func (s *APIServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the instrumented handler for testing purposes.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the configured listen address.
func (s *APIServer) Addr() string {
	return s.server.Addr
}
