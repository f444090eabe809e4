// Package api provides the HTTP API server and handlers for FlixLens.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/http/response"
	"github.com/flixlens/flixlens/internal/sse"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	name          string
	services      *Services
	router        *chi.Mux
	api           huma.API
	metrics       *telemetry.Metrics
	exportLimiter *RateLimiter
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// metrics may be nil.
func NewServer(cfg *config.Config, services *Services, metrics *telemetry.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		name:          cfg.Server.Name,
		services:      services,
		router:        chi.NewRouter(),
		metrics:       metrics,
		exportLimiter: NewRateLimiter(cfg.Export.RatePerMinute, cfg.Export.Burst),
		logger:        logger,
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig(cfg.Server.Name+" API", APIVersion)
	humaConfig.Info.Description = "Filtered views, charts and downloads over the Netflix titles catalog."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes(cfg)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the typed API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases the rate limiter.
func (s *Server) Close() {
	s.exportLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-Export-Rows"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg *config.Config) {
	s.registerHealthRoutes()
	s.registerDatasetRoutes()
	s.registerDashboardRoutes()
	s.registerExportRoutes()
	s.registerSearchRoutes()

	s.router.Get("/", s.handleIndex)
	if s.services.Events != nil {
		s.router.Method(http.MethodGet, "/api/v1/events", sse.NewHandler(s.services.Events, s.snapshotID, s.logger))
	}
	if cfg.Metrics.Enabled && s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method+" is not allowed on "+r.URL.Path, s.logger)
	})
}

// snapshotID returns the id of the served catalog, or "" before the first load.
func (s *Server) snapshotID() string {
	snap, err := s.services.Catalog.Snapshot()
	if err != nil {
		return ""
	}
	return snap.ID
}
