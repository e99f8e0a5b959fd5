package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/metrics"
	"github.com/rpgo/retirement-runway/internal/storage"
)

// Version is reported by /health.
var Version = "dev"

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestID returns the id the request ID middleware attached, or "unknown".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DefaultConfig returns the default server configuration. RUNWAY_HTTP_PORT
// overrides the port.
func DefaultConfig() Config {
	port := 8080
	if portStr := os.Getenv("RUNWAY_HTTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	return Config{
		Host:           "127.0.0.1", // Local-only by default
		Port:           port,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		RequestTimeout: 20 * time.Second,
	}
}

// Dependencies are the collaborators the handlers use. Only Store is
// required; the rest default to fresh instances.
type Dependencies struct {
	Store   *storage.Store
	Parser  *config.InputParser
	Engine  *calculation.ProjectionEngine
	Stress  *calculation.StressTestEngine
	Metrics *metrics.Registry
	Logger  zerolog.Logger
}

// Server is the retirement runway HTTP boundary.
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *handlers
	config   Config
	logger   zerolog.Logger
}

// NewServer wires routes and middleware. It does not bind the port.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server requires a storage.Store")
	}
	if deps.Parser == nil {
		deps.Parser = config.NewInputParser()
	}
	if deps.Engine == nil {
		deps.Engine = calculation.NewProjectionEngine(nil, nil, nil, calculation.NewZerologLogger(deps.Logger))
	}
	if deps.Stress == nil {
		deps.Stress = calculation.NewStressTestEngine()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}

	s := &Server{
		router:   mux.NewRouter(),
		handlers: newHandlers(deps),
		config:   cfg,
		logger:   deps.Logger.With().Str("component", "http").Logger(),
	}
	s.setupRoutes(deps.Metrics)

	s.server = &http.Server{
		Addr:         s.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(reg *metrics.Registry) {
	// Middleware for all routes
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.timeoutMiddleware)

	// Prometheus text format, registered before the JSON subrouter
	s.router.Handle("/metrics", reg.Handler()).Methods("GET")

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)

	api.HandleFunc("/health", s.handlers.Health).Methods("GET")

	api.HandleFunc("/api/retirement/config", s.handlers.GetConfig).Methods("GET")
	api.HandleFunc("/api/retirement/config", s.handlers.SaveConfig).Methods("POST", "PUT")
	api.HandleFunc("/api/retirement/config", s.handlers.DeleteConfig).Methods("DELETE")

	// GET simulates the stored configuration, POST an ad-hoc one
	api.HandleFunc("/api/retirement/simulate", s.handlers.SimulateStored).Methods("GET")
	api.HandleFunc("/api/retirement/simulate", s.handlers.SimulateBody).Methods("POST")

	api.HandleFunc("/api/retirement/compare", s.handlers.Compare).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
}

// Handler returns the routed handler. CORS wraps the router so preflight
// requests are answered before route matching.
func (s *Server) Handler() http.Handler { return s.corsMiddleware(s.router) }

// requestIDMiddleware adds unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLoggingMiddleware logs all requests with structured format
func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture response status
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.Info().
			Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// timeoutMiddleware bounds how long a simulation may run per request
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware adds CORS headers for local development
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only allow localhost origins
		origin := r.Header.Get("Origin")
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// jsonContentTypeMiddleware sets JSON content type for API responses
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.Address()).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// responseWrapper captures HTTP status codes for logging
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
