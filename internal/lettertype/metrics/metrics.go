package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the letter type catalogue.
type Metrics struct {
	TypesSaved            *prometheus.CounterVec
	UnresolvedPerPreview  prometheus.Histogram
	StoreOperationLatency *prometheus.HistogramVec
}

// New registers and returns letter type metrics collectors.
func New() *Metrics {
	return &Metrics{
		TypesSaved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_letter_types_saved_total",
			Help: "Total letter type catalogue writes, labeled by change kind",
		}, []string{"change"}),
		UnresolvedPerPreview: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "suratdesa_letter_type_preview_unresolved_placeholders",
			Help:    "Distribution of unresolved placeholder counts per template preview",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}),
		StoreOperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "suratdesa_letter_type_store_operation_latency_seconds",
			Help:    "Latency of letter type store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementTypesSaved(change string) {
	m.TypesSaved.WithLabelValues(change).Inc()
}

func (m *Metrics) ObserveUnresolvedPerPreview(count float64) {
	m.UnresolvedPerPreview.Observe(count)
}

// ObserveStoreOperationLatency records the latency of a store operation.
func (m *Metrics) ObserveStoreOperationLatency(operation string, durationSeconds float64) {
	m.StoreOperationLatency.WithLabelValues(operation).Observe(durationSeconds)
}
