package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registry autofill.
type Metrics struct {
	Lookups       *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	CacheLatency  prometheus.Histogram
	LookupLatency prometheus.Histogram
	FieldsFilled  prometheus.Histogram
	SharedLookups prometheus.Counter
}

// New registers and returns registry metrics collectors.
func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "suratdesa_registry_lookups_total",
			Help: "Total registry lookups, labeled by outcome",
		}, []string{"outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "suratdesa_registry_cache_hits_total",
			Help: "Registry cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "suratdesa_registry_cache_misses_total",
			Help: "Registry cache misses",
		}),
		CacheLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "suratdesa_registry_cache_latency_seconds",
			Help:    "Latency of registry cache reads in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		LookupLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "suratdesa_registry_lookup_latency_seconds",
			Help:    "End-to-end latency of registry lookups in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		FieldsFilled: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "suratdesa_registry_fields_filled",
			Help:    "Distribution of field counts filled per autofill resolution",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		SharedLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "suratdesa_registry_shared_lookups_total",
			Help: "Lookups coalesced onto an in-flight request for the same national ID",
		}),
	}
}

func (m *Metrics) RecordLookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCacheHit()  { m.CacheHits.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMisses.Inc() }

func (m *Metrics) ObserveCacheLatency(seconds float64)  { m.CacheLatency.Observe(seconds) }
func (m *Metrics) ObserveLookupLatency(seconds float64) { m.LookupLatency.Observe(seconds) }
func (m *Metrics) ObserveFieldsFilled(count float64)    { m.FieldsFilled.Observe(count) }
func (m *Metrics) RecordSharedLookup()                  { m.SharedLookups.Inc() }
