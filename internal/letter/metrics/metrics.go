package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the letter lifecycle.
type Metrics struct {
	Submitted       *prometheus.CounterVec
	Decisions       *prometheus.CounterVec
	StatusReached   *prometheus.CounterVec
	DecisionLatency prometheus.Histogram
}

// New registers and returns letter metrics collectors.
func New() *Metrics {
	return &Metrics{
		Submitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_letters_submitted_total",
			Help: "Total letters submitted, labeled by letter type code",
		}, []string{"letter_type"}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_letter_decisions_total",
			Help: "Total verification decisions, labeled by tier and decision",
		}, []string{"tier", "decision"}),
		StatusReached: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_letter_status_reached_total",
			Help: "Times letters entered each status",
		}, []string{"status"}),
		DecisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "suratdesa_letter_decision_latency_seconds",
			Help:    "Latency of decision handling in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementSubmitted(letterType string) {
	m.Submitted.WithLabelValues(letterType).Inc()
}

func (m *Metrics) IncrementDecisions(tier int, decision string) {
	m.Decisions.WithLabelValues(strconv.Itoa(tier), decision).Inc()
}

func (m *Metrics) RecordStatus(status string) {
	m.StatusReached.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveDecisionLatency(seconds float64) {
	m.DecisionLatency.Observe(seconds)
}
