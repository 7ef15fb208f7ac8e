package catalogsync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the sync job.
type Metrics struct {
	Registry      *prometheus.Registry
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	ProductsTotal *prometheus.CounterVec
	RecordErrors  prometheus.Counter
	RunsInFlight  prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total sync runs by terminal status.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Wall-clock duration of sync runs.",
			Buckets: prometheus.DefBuckets,
		},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_products_total",
			Help: "Products written during sync, by outcome.",
		},
		[]string{"outcome"},
	)
	recordErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sync_record_errors_total",
			Help: "Per-record failures that did not abort a run.",
		},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_sync_runs_in_flight",
			Help: "Number of sync runs currently executing.",
		},
	)

	registry.MustRegister(runs, runDuration, products, recordErrors, inFlight)

	return &Metrics{
		Registry:      registry,
		RunsTotal:     runs,
		RunDuration:   runDuration,
		ProductsTotal: products,
		RecordErrors:  recordErrors,
		RunsInFlight:  inFlight,
	}
}

func (m *Metrics) observeRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) observeProducts(result Result) {
	if m == nil {
		return
	}
	m.ProductsTotal.WithLabelValues("imported").Add(float64(result.Imported))
	m.ProductsTotal.WithLabelValues("updated").Add(float64(result.Updated))
	m.RecordErrors.Add(float64(result.Errors))
}

func (m *Metrics) runStarted() {
	if m == nil {
		return
	}
	m.RunsInFlight.Inc()
}

func (m *Metrics) runEnded() {
	if m == nil {
		return
	}
	m.RunsInFlight.Dec()
}
