package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP-level prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "golexcel_http_requests_total",
			Help: "Total HTTP requests by route, method, and status code",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "golexcel_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "golexcel_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.loginAttempts)
	return m
}

// ObserveRequest records one completed HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveLogin records a login attempt outcome ("success" or "failure")
func (m *Metrics) ObserveLogin(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// Handler exposes the metrics endpoint for the health server
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
