package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aiso/tripdesk/internal/api"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/middleware"
)

// RegisterRoutes builds the HTTP handler. gatherer backs /metrics.
func RegisterRoutes(deps *api.Dependencies, upSince time.Time, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	if cfg.DebugHTTP {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.HealthChecks(), upSince))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, deps.Metrics)

	// the web client's mock base is /api, so every route is served at both roots
	RegisterAPIRoutes(r, deps, limiter)
	r.Route("/api", func(sub chi.Router) {
		RegisterAPIRoutes(sub, deps, limiter)
		sub.Get("/events", api.ListMeetingsHandler(deps.Services.Events))
	})

	logging.Info("Router initialized", "store", deps.Store.Backend())
	return r
}
