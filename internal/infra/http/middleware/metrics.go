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

	leadUnlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_unlocks_total",
			Help: "Total number of fresh lead unlocks by funding source",
		},
		[]string{"funding"},
	)

	leadUnlockFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_unlock_failures_total",
			Help: "Total number of failed lead unlocks by error code",
		},
		[]string{"reason"},
	)

	creditsPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_purchased_total",
			Help: "Total number of credits added through paid packs",
		},
	)

	billingWebhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhooks_total",
			Help: "Total number of billing webhooks by event and result",
		},
		[]string{"event", "result"},
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
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern evita um label por id de enquiry ou listing.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordUnlock(funding string) {
	leadUnlocks.WithLabelValues(funding).Inc()
}

func RecordUnlockFailure(reason string) {
	leadUnlockFailures.WithLabelValues(reason).Inc()
}

func RecordCreditsPurchased(credits int) {
	if credits > 0 {
		creditsPurchased.Add(float64(credits))
	}
}

func RecordBillingWebhook(event, result string) {
	billingWebhooks.WithLabelValues(event, result).Inc()
}
