// Package http provides the shared HTTP server, router and middlewares used by
// the service transports.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

// HTTPTransportConfig contains configuration parameters for HTTP servers.
type HTTPTransportConfig struct {
	// ServerAddr is the network address to listen on
	ServerAddr string `yaml:"server_addr" env:"SERVER_ADDR" env-default:":8080"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" env-default:"5s"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"5s"`

	// ShutdownTimeout bounds how long in-flight requests may drain on shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	// CORSOrigins lists the origins allowed to call the API
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*"`

	// IdentityHeader is the request header carrying the caller's user ID
	IdentityHeader string `yaml:"identity_header" env:"IDENTITY_HEADER" env-default:"X-User-Id"`
}

// Routes is implemented by service transports that mount their endpoints on a router.
type Routes interface {
	Register(r chi.Router)
}

// NewRouter creates the API router: CORS, caller identification, a health endpoint and
// every transport's routes.
func NewRouter(cfg HTTPTransportConfig, identity IdentityProvider, transports ...Routes) chi.Router {
	log := logging.GetLogger("infra.transport.http.router")

	router := chi.NewRouter()

	//nolint:exhaustruct
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.IdentityHeader, TraceIDHeader},
		ExposedHeaders: []string{TraceIDHeader},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))
	router.Use(func(next http.Handler) http.Handler {
		return IdentifyingMiddleware(next, identity, log)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	for _, transport := range transports {
		transport.Register(router)
	}

	return router
}

// WithMiddlewares wraps handler with panic recovery, request logging and tracing.
func WithMiddlewares(handler http.Handler, log logging.Logger) http.Handler {
	handler = RescueingMiddleware(handler, log)
	handler = LoggingMiddleware(handler, log)
	handler = TracingMiddleware(handler)

	return handler
}

// ListenAndServe starts an HTTP server with the given handler and configuration.
// It blocks until the server fails or ctx is cancelled, in which case in-flight
// requests are drained for at most cfg.ShutdownTimeout.
func ListenAndServe(ctx context.Context, handler http.Handler, cfg HTTPTransportConfig) error {
	log := logging.GetLogger("infra.transport.http")

	//nolint:exhaustruct
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           WithMiddlewares(handler, log),
		ErrorLog:          logging.GetLogLogger(log, logging.LevelError),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	sock, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.InfoContext(ctx, "listening", "addr", sock.Addr().String())

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Serve(sock)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "shutting down", "timeout", cfg.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
