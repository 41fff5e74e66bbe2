// Package metrics provides Prometheus metrics for the monitor ingestion service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Manager owns every collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Source ingestion
	sourceFetches  *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
	sourceItems    *prometheus.GaugeVec

	// Adapters
	parseFailures    *prometheus.CounterVec
	payloadRecovered *prometheus.CounterVec
	databaseLoads    *prometheus.CounterVec
	databaseLoadTime *prometheus.HistogramVec

	// Classification and aggregation
	classificationDrops *prometheus.CounterVec
	duplicatesDiscarded prometheus.Counter
	aggregationExcluded prometheus.Counter

	// Snapshots
	snapshotPublished     prometheus.Counter
	snapshotLastUnix      prometheus.Gauge
	snapshotBuildDuration prometheus.Histogram
	snapshotItems         prometheus.Gauge
	snapshotRankings      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // private registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "monitor",
		subsystem:        "ingest",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sourceFetches = m.counterVec("source_fetch_total", "Source ingestion attempts by outcome", "source", "outcome")
	m.sourceDuration = m.histogramVec("source_duration_milliseconds", "Source ingestion duration in milliseconds", "source")
	m.sourceItems = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "source_items",
		Help: "Records produced by a source in the last run", ConstLabels: m.constLabels,
	}, []string{"source"})

	m.parseFailures = m.counterVec("parse_failures_total", "Payloads an adapter could not parse", "adapter")
	m.payloadRecovered = m.counterVec("payload_recoveries_total", "Payloads decoded through the lenient fallback path", "adapter")
	m.databaseLoads = m.counterVec("database_loads_total", "Embedded database snapshot loads by outcome", "database", "outcome")
	m.databaseLoadTime = m.histogramVec("database_load_duration_milliseconds", "Embedded database snapshot load duration", "database")

	m.classificationDrops = m.counterVec("classification_drops_total", "Records dropped because no bucket matched", "reason")
	m.duplicatesDiscarded = m.counter("duplicates_discarded_total", "Records discarded as duplicates of an earlier record")
	m.aggregationExcluded = m.counter("aggregation_excluded_total", "Aggregated entities excluded for all-zero metrics")

	m.snapshotPublished = m.counter("snapshot_published_total", "Snapshots published to readers")
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix timestamp of the last snapshot publish")
	m.snapshotBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "snapshot_build_duration_milliseconds",
		Help: "Full ingestion run duration in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	})
	m.snapshotItems = m.gauge("snapshot_items", "Monitor items in the current snapshot")
	m.snapshotRankings = m.gauge("snapshot_rankings", "Ranking tables in the current snapshot")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "HTTP errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

func outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeFailed
}

// RecordSourceFetch counts one source ingestion attempt.
func RecordSourceFetch(source string, ok bool) {
	globalManager.sourceFetches.WithLabelValues(source, outcome(ok)).Inc()
}

// RecordSourceDuration records how long a source took.
func RecordSourceDuration(source string, ms float64) {
	globalManager.sourceDuration.WithLabelValues(source).Observe(ms)
}

// UpdateSourceItems sets the number of records a source produced.
func UpdateSourceItems(source string, n int) {
	globalManager.sourceItems.WithLabelValues(source).Set(float64(n))
}

// RecordParseFailure counts a payload an adapter rejected.
func RecordParseFailure(adapter string) {
	globalManager.parseFailures.WithLabelValues(adapter).Inc()
}

// RecordPayloadRecovered counts a payload decoded through the lenient path.
func RecordPayloadRecovered(adapter string) {
	globalManager.payloadRecovered.WithLabelValues(adapter).Inc()
}

// RecordDatabaseLoad records an embedded database snapshot load.
func RecordDatabaseLoad(database string, ok bool, ms float64) {
	globalManager.databaseLoads.WithLabelValues(database, outcome(ok)).Inc()
	globalManager.databaseLoadTime.WithLabelValues(database).Observe(ms)
}

// RecordClassificationDrop counts a record without a known bucket.
func RecordClassificationDrop(reason string) {
	globalManager.classificationDrops.WithLabelValues(reason).Inc()
}

// RecordDuplicatesDiscarded adds n discarded duplicates.
func RecordDuplicatesDiscarded(n int) {
	if n > 0 {
		globalManager.duplicatesDiscarded.Add(float64(n))
	}
}

// RecordAggregationExcluded adds n entities excluded from an aggregation.
func RecordAggregationExcluded(n int) {
	if n > 0 {
		globalManager.aggregationExcluded.Add(float64(n))
	}
}

// RecordSnapshotPublished records a snapshot publish.
func RecordSnapshotPublished(items, rankings int, buildMs float64, unix int64) {
	globalManager.snapshotPublished.Inc()
	globalManager.snapshotLastUnix.Set(float64(unix))
	globalManager.snapshotBuildDuration.Observe(buildMs)
	globalManager.snapshotItems.Set(float64(items))
	globalManager.snapshotRankings.Set(float64(rankings))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the private Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
