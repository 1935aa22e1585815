package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig controls the surface mounted by NewRouter.
type RouterConfig struct {
	AllowedOrigins []string
	// MetricsPath mounts the Prometheus endpoint; empty disables it.
	MetricsPath string
}

// NewRouter wires the API routes and middleware around h.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware,
		middleware.RealIP,
		RecoveryMiddleware(h.logger),
		LoggerMiddleware(h.logger),
		h.metrics.Middleware,
		SecurityHeadersMiddleware,
	)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/", h.handleHome)
	r.Post("/predict", h.handlePredict)
	r.Get("/healthz", h.handleHealth)
	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, h.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.logger.Debug("routes registered", zap.String("metrics_path", cfg.MetricsPath))
	return r
}
