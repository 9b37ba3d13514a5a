package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTPRequestsTotal counts handled requests by route template and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency per route template.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInFlight is the number of requests currently being served.
	HTTPRequestsInFlight prometheus.Gauge

	// AssignmentTogglesTotal counts car assignment toggles by resulting state (assigned|unassigned).
	AssignmentTogglesTotal *prometheus.CounterVec

	// LoginAttemptsTotal counts login attempts by outcome (success|failure).
	LoginAttemptsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxi_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	AssignmentTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_assignment_toggles_total",
			Help: "Car assignment toggles by resulting state",
		},
		[]string{"state"},
	)
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		AssignmentTogglesTotal, LoginAttemptsTotal,
	)
}

// RecordToggle records the state a car assignment toggle produced.
func RecordToggle(assigned bool) {
	state := "unassigned"
	if assigned {
		state = "assigned"
	}
	AssignmentTogglesTotal.WithLabelValues(state).Inc()
}

// RecordLogin records the outcome of a login attempt.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// StatusClass collapses an HTTP status code into 2xx/3xx/4xx/5xx.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Handler returns an http.Handler that serves application and runtime metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
