package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "harmony"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Registration metrics
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "total",
			Help:      "Total number of registrations by outcome",
		},
		[]string{"outcome"},
	)

	qualificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "qualifications_total",
			Help:      "Total number of qualification records created",
		},
	)

	subscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "subscriptions_total",
			Help:      "Total number of email subscription attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Email metrics
	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Total number of welcome emails by template, sender and status",
		},
		[]string{"template", "sender", "status"},
	)

	emailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "send_duration_seconds",
			Help:      "Duration of email delivery in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"sender"},
	)

	// Welcome dispatcher metrics
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "notifications_total",
			Help:      "Total number of welcome notifications by outcome",
		},
		[]string{"outcome"},
	)

	dispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "queue_depth",
			Help:      "Number of welcome notifications waiting in the queue",
		},
	)

	// Worker metrics
	trialsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "trials_expired_total",
			Help:      "Total number of trials moved to expired",
		},
	)

	workerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "runs_total",
			Help:      "Total number of background job runs",
		},
		[]string{"job", "status"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRegistration records a registration outcome (created, existing, failed)
func RecordRegistration(outcome string) {
	registrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordQualification records a qualification insert
func RecordQualification() {
	qualificationsTotal.Inc()
}

// RecordSubscription records an email subscription attempt outcome
func RecordSubscription(outcome string) {
	subscriptionsTotal.WithLabelValues(outcome).Inc()
}

// RecordEmail records a welcome email delivery attempt
func RecordEmail(template, sender, status string, duration time.Duration) {
	emailsSentTotal.WithLabelValues(template, sender, status).Inc()
	emailSendDuration.WithLabelValues(sender).Observe(duration.Seconds())
}

// RecordDispatch records a welcome notification outcome (sent, failed, dropped)
func RecordDispatch(outcome string) {
	dispatchTotal.WithLabelValues(outcome).Inc()
}

// SetDispatchQueueDepth sets the welcome dispatcher queue gauge
func SetDispatchQueueDepth(depth int) {
	dispatchQueueDepth.Set(float64(depth))
}

// RecordTrialsExpired records trials moved to expired
func RecordTrialsExpired(count int64) {
	trialsExpiredTotal.Add(float64(count))
}

// RecordWorkerRun records a background job run
func RecordWorkerRun(job, status string) {
	workerRunsTotal.WithLabelValues(job, status).Inc()
}
