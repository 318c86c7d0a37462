package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	clientesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_clientes_created_total",
			Help: "Total number of clientes created",
		},
	)

	travaUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_trava_updates_total",
			Help: "Successful trava updates by target mode (human or bot)",
		},
		[]string{"mode"},
	)

	statusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_status_updates_total",
			Help: "Successful status_crm updates by target status",
		},
		[]string{"status"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics usa o padrão da rota do chi ("/clientes/{id}") como label,
// senão cada ID viraria uma série nova.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordClienteCreated() {
	clientesCreated.Inc()
}

func RecordTravaUpdate(trava bool) {
	mode := "bot"
	if trava {
		mode = "human"
	}
	travaUpdates.WithLabelValues(mode).Inc()
}

func RecordStatusUpdate(status string) {
	statusUpdates.WithLabelValues(status).Inc()
}
