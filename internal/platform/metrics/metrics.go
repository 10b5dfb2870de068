package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics shared across handlers.
// Per-vertical metrics live in each vertical's metrics package.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	EndpointLatency *prometheus.HistogramVec
	AuthFailures    prometheus.Counter
}

// New creates and registers the shared metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_http_requests_total",
			Help: "Total HTTP requests, labeled by endpoint and status class",
		}, []string{"endpoint", "status"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "suratdesa_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "suratdesa_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
	}
}
