package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "purchasepredict_http_requests_total", Help: "HTTP requests"},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "purchasepredict_http_request_duration_seconds", Help: "HTTP request latency", Buckets: []float64{0.001, 0.005, 0.02, 0.1, 0.3, 1}},
			[]string{"route"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "purchasepredict_predictions_total", Help: "Predictions served by label"},
			[]string{"label"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "purchasepredict_rejected_requests_total", Help: "Prediction requests that failed"},
			[]string{"reason"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration, m.predictions, m.rejections)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) observePrediction(label string) {
	m.predictions.WithLabelValues(label).Inc()
}

func (m *Metrics) observeRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}
