package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aurawell/aurawell-web/internal/analytics"
	"github.com/aurawell/aurawell-web/internal/logger"
	"github.com/aurawell/aurawell-web/internal/ratelimit"
)

// QueryTimeout bounds each dashboard computation, including its fan-out
// queries against the event store.
const QueryTimeout = 15 * time.Second

// Server holds dependencies for API handlers.
type Server struct {
	engine  *analytics.Engine
	limiter *ratelimit.Limiter
	version string
}

// NewServer creates a new API server.
func NewServer(engine *analytics.Engine, limiter *ratelimit.Limiter, version string) *Server {
	return &Server{
		engine:  engine,
		limiter: limiter,
		version: version,
	}
}

// SetupRoutes configures HTTP routes.
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(ratelimit.Middleware(s.limiter))
		}
		r.Use(compressMiddleware)

		r.Get("/overview", s.handleOverview)
		r.Get("/timeline", s.handleTimeline)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/engagement", s.handleEngagement)
		r.Get("/department-risks", s.handleDepartmentRisks)
		r.Get("/growth", s.handleGrowth)
		r.Get("/saas-metrics", s.handleSaasMetrics)
		r.Get("/wellness-metrics", s.handleWellnessMetrics)
	})

	return r
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleRoot returns API info.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": "aurawell-backend",
		"version": s.version,
	})
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondComputeError maps engine errors to HTTP statuses: bad parameters
// are the caller's fault, a dead event store is not.
func respondComputeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	log := logger.Ctx(r.Context())

	if analytics.IsValidation(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, analytics.ErrDataUnavailable) {
		log.Error("event store query failed", "operation", operation, "error", err)
		respondError(w, http.StatusServiceUnavailable, "Analytics data temporarily unavailable")
		return
	}

	log.Error("failed to compute analytics", "operation", operation, "error", err)
	respondError(w, http.StatusInternalServerError, "Failed to compute "+operation)
}
