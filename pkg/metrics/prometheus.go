package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	computations  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	moduleResults *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		computations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "destiny_computations_total",
				Help: "Total destiny-map computations by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "destiny_cache_lookups_total",
				Help: "Aggregate cache lookups by result",
			},
			[]string{"result"},
		),
		moduleResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "destiny_module_results_total",
				Help: "Derived-chart module outcomes",
			},
			[]string{"module", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "destiny_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "destiny_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordComputation records a completed computation by outcome ("ok", "degraded", "failed").
func (r *Recorder) RecordComputation(outcome string) {
	r.computations.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records an aggregate cache lookup ("hit" or "miss").
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordModuleResult records one derived-chart module outcome ("ok" or "failed").
func (r *Recorder) RecordModuleResult(module, result string) {
	r.moduleResults.WithLabelValues(module, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
