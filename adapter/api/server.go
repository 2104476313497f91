// Package api serves the task API over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felixgeelhaar/nexus/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *TaskHandler
	health  *observability.HealthRegistry
	metrics http.Handler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ServerDeps are the collaborators the server routes to.
type ServerDeps struct {
	Handler *TaskHandler
	Health  *observability.HealthRegistry
	// Registry backs /metrics and the HTTP request metrics. Nil disables both.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	health := deps.Health
	if health == nil {
		health = observability.NewHealthRegistry(5 * time.Second)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  observability.WithComponent(logger, "http"),
		handler: deps.Handler,
		health:  health,
	}

	var root http.Handler = s.mux
	if deps.Registry != nil {
		s.metrics = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry})
		root = NewHTTPMetrics(deps.Registry).Middleware(root)
	}
	root = requestContext(accessLog(s.logger, root))

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.Handle("GET /health", s.health.Handler())
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}

	s.mux.HandleFunc("GET /api/tasks", s.handler.ListTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handler.CreateTask)
	s.mux.HandleFunc("GET /api/tasks/search", s.handler.SearchTasks)
	s.mux.HandleFunc("GET /api/tasks/status/{status}", s.handler.TasksByStatus)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handler.GetTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.handler.UpdateTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handler.DeleteTask)
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeAPIError writes e using its status.
func writeAPIError(w http.ResponseWriter, e *APIError) {
	writeError(w, e.Status, e.Message)
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy of e carrying message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{Status: e.Status, Code: e.Code, Message: message}
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)
