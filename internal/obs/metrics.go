// Package obs holds the process-wide prometheus collectors.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "payroll_check_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_check_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payroll_check_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// UpstreamRequests counts calls to the provider by endpoint and outcome.
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_check_upstream_requests_total",
			Help: "Requests sent to the payroll provider.",
		},
		[]string{"endpoint", "outcome"},
	)

	// UpstreamDuration observes provider latency by endpoint.
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payroll_check_upstream_request_duration_seconds",
			Help:    "Payroll provider latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// ValidationFindings counts rule violations by item.
	ValidationFindings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_check_validation_findings_total",
			Help: "Payroll statement rule violations found.",
		},
		[]string{"item"},
	)

	// AuthorizationOutcomes counts callback results.
	AuthorizationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_check_authorization_callbacks_total",
			Help: "Authorization callbacks by outcome.",
		},
		[]string{"outcome"},
	)
)

// Registry holds every collector of this package.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		UpstreamRequests,
		UpstreamDuration,
		ValidationFindings,
		AuthorizationOutcomes,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler exposes Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one provider call.
func ObserveUpstream(endpoint, outcome string, started time.Time) {
	UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// Instrument measures request count, latency and in-flight requests.
// route is used as the path label to keep cardinality bounded.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
