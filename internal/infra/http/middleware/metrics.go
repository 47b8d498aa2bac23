package middleware

import (
	"net/http"
	"strconv"
	"time"

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

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_cache_lookups_total",
			Help: "Entry list lookups by cache result",
		},
		[]string{"result"},
	)

	emailsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_dispatched_total",
			Help: "Confirmation emails by outcome",
		},
		[]string{"status"},
	)

	assetsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assets_generated_total",
			Help: "Generated ticket assets by stage and result",
		},
		[]string{"stage", "result"},
	)

	uniqueIDsAssigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unique_ids_assigned_total",
			Help: "Unique identifiers written back to the sheet",
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

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

func RecordEmail(status string) {
	emailsDispatched.WithLabelValues(status).Inc()
}

func RecordAssets(stage string, generated, skipped int) {
	assetsGenerated.WithLabelValues(stage, "generated").Add(float64(generated))
	assetsGenerated.WithLabelValues(stage, "skipped").Add(float64(skipped))
}

func RecordUniqueIDs(count int) {
	uniqueIDsAssigned.Add(float64(count))
}
