// Package metrics provides Prometheus metrics for the PRD store
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the PRD store
type Metrics struct {
	// Submit decision metrics
	SubmitsTotal    *prometheus.CounterVec
	SimilarityScore prometheus.Histogram

	// Store operation metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Collection metrics
	DocumentsTotal      prometheus.Gauge
	RootsTotal          prometheus.Gauge
	PendingUpdatesTotal prometheus.Gauge
	CollectionSizeBytes prometheus.Gauge

	// Lineage metrics
	VersionsCreatedTotal prometheus.Counter
	SubPRDsCreatedTotal  prometheus.Counter
	DeletesTotal         prometheus.Counter

	// Generation metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram

	// Uptime
	UptimeSeconds prometheus.Gauge
	StartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		StartTime: time.Now(),
	}

	// Submit decision metrics
	m.SubmitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prdstore_submits_total",
			Help: "Total number of submitted candidates by reconciliation outcome",
		},
		[]string{"outcome"},
	)

	m.SimilarityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prdstore_match_similarity",
			Help:    "Content similarity of the best potential match per submit",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// Store operation metrics
	m.StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prdstore_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prdstore_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Collection metrics
	m.DocumentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prdstore_documents_total",
			Help: "Total number of documents in the collection",
		},
	)

	m.RootsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prdstore_roots_total",
			Help: "Number of root documents (hierarchy trees)",
		},
	)

	m.PendingUpdatesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prdstore_pending_updates_total",
			Help: "Number of queued pending updates",
		},
	)

	m.CollectionSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prdstore_collection_size_bytes",
			Help: "Total content size of all documents in bytes",
		},
	)

	// Lineage metrics
	m.VersionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prdstore_versions_created_total",
			Help: "Total number of versions created",
		},
	)

	m.SubPRDsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prdstore_subprds_created_total",
			Help: "Total number of sub-PRDs created",
		},
	)

	m.DeletesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prdstore_deletes_total",
			Help: "Total number of subtree deletions",
		},
	)

	// Generation metrics
	m.GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prdstore_generations_total",
			Help: "Total number of AI text generations",
		},
		[]string{"status"},
	)

	m.GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prdstore_generation_duration_seconds",
			Help:    "Duration of AI text generations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Uptime
	m.UptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prdstore_uptime_seconds",
			Help: "Process uptime in seconds",
		},
	)

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime periodically updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.UptimeSeconds.Set(time.Since(m.StartTime).Seconds())
	}
}

// RecordSubmit records a reconciliation decision
func (m *Metrics) RecordSubmit(outcome string) {
	m.SubmitsTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreOperation records a store operation
func (m *Metrics) RecordStoreOperation(operation string, status string, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateCollectionStats updates collection gauges
func (m *Metrics) UpdateCollectionStats(documents, roots, pending int, sizeBytes int64) {
	m.DocumentsTotal.Set(float64(documents))
	m.RootsTotal.Set(float64(roots))
	m.PendingUpdatesTotal.Set(float64(pending))
	m.CollectionSizeBytes.Set(float64(sizeBytes))
}

// RecordGeneration records an AI text generation
func (m *Metrics) RecordGeneration(status string, duration time.Duration) {
	m.GenerationsTotal.WithLabelValues(status).Inc()
	m.GenerationDuration.Observe(duration.Seconds())
}
