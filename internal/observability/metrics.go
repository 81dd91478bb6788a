// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the processing pipeline. A nil
// *Metrics is valid and records nothing, so callers that do not export
// metrics skip the wiring entirely.
type Metrics struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec // by status: ok / failed
	RunDuration prometheus.Histogram
	ParseErrors prometheus.Counter

	// Peak metrics
	PeaksDetected prometheus.Counter
	PeaksPerRun   prometheus.Histogram

	// Warning metrics
	WarningsTotal *prometheus.CounterVec // by warning code

	// Storage metrics
	StoreErrors *prometheus.CounterVec // by store, operation
}

// NewMetrics creates a Metrics instance registered on the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "chromalab"
	}

	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of processed runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one full run (load through summary)",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		ParseErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "parse_errors_total",
			Help:      "Total number of instrument files rejected by the parser",
		}),
		PeaksDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "peaks_total",
			Help:      "Total number of peaks detected across all runs",
		}),
		PeaksPerRun: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "peaks_per_run",
			Help:      "Number of peaks detected in one run",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		WarningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "warnings_total",
			Help:      "Total number of non-fatal processing warnings by code",
		}, []string{"code"}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of store failures by store and operation",
		}, []string{"store", "operation"}),
	}
}

// RecordRun records the outcome of one whole run.
func (m *Metrics) RecordRun(ok bool, seconds float64, peaks int) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
	if ok {
		m.PeaksDetected.Add(float64(peaks))
		m.PeaksPerRun.Observe(float64(peaks))
	}
}

// RecordParseError counts a rejected input file.
func (m *Metrics) RecordParseError() {
	if m == nil {
		return
	}
	m.ParseErrors.Inc()
}

// RecordWarning counts one warning by its code.
func (m *Metrics) RecordWarning(code string) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(code).Inc()
}

// RecordStoreError counts a store failure.
func (m *Metrics) RecordStoreError(store, operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(store, operation).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
