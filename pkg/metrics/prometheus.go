// Package metrics provides Prometheus metrics for the bake-off league service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scoring
	scoresAdmitted  prometheus.Counter
	scoresUpdated   prometheus.Counter
	scoresDeleted   prometheus.Counter
	scoreRejections *prometheus.CounterVec
	idempotentHits  prometheus.Counter

	// Season aggregation
	recalculations        *prometheus.CounterVec
	recalculationDuration prometheus.Histogram
	seasonTotalRows       prometheus.Gauge
	lastRecalculationUnix prometheus.Gauge

	// League size
	players     prometheus.Gauge
	contestants prometheus.Gauge
	scores      prometheus.Gauge

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec
	repositoryErrors       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bakeoff",
		subsystem:        "league",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix != "" {
		return m.metricPrefix + "_" + n
	}
	return n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.scoresAdmitted = m.counter("scores_admitted_total", "Weekly scores admitted")
	m.scoresUpdated = m.counter("scores_updated_total", "Weekly scores edited in place")
	m.scoresDeleted = m.counter("scores_deleted_total", "Weekly scores removed")
	m.scoreRejections = m.counterVec("score_rejections_total",
		"Score admissions rejected by reason", "reason")
	m.idempotentHits = m.counter("idempotent_replays_total",
		"Score submissions answered from the idempotency cache")

	m.recalculations = m.counterVec("recalculations_total",
		"Season total rebuilds by outcome", "outcome")
	m.recalculationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("recalculation_duration_milliseconds"),
		Help:        "Duration of a full season total rebuild",
		ConstLabels: m.customLabels,
		Buckets:     []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	m.seasonTotalRows = m.gauge("season_total_rows", "Rows in the derived season total table")
	m.lastRecalculationUnix = m.gauge("last_recalculation_unix", "Unix time of the last successful rebuild")

	m.players = m.gauge("players", "Registered fantasy players")
	m.contestants = m.gauge("contestants", "Registered contestants")
	m.scores = m.gauge("weekly_scores", "Weekly score rows")

	m.repositoryQueryLatency = m.histogramVec("repository_query_latency_milliseconds",
		"Entity store call latency", "operation")
	m.repositoryErrors = m.counterVec("repository_errors_total", "Entity store failures", "operation")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"HTTP errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		ConstLabels: m.customLabels,
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordScoreAdmitted increments the admitted scores counter.
func RecordScoreAdmitted() {
	globalManager.scoresAdmitted.Inc()
}

// RecordScoreUpdated increments the edited scores counter.
func RecordScoreUpdated() {
	globalManager.scoresUpdated.Inc()
}

// RecordScoreDeleted increments the deleted scores counter.
func RecordScoreDeleted() {
	globalManager.scoresDeleted.Inc()
}

// RecordScoreRejected counts a rejected admission, e.g. reason "duplicate_winner".
func RecordScoreRejected(reason string) {
	globalManager.scoreRejections.WithLabelValues(reason).Inc()
}

// RecordIdempotentReplay counts a replayed score submission.
func RecordIdempotentReplay() {
	globalManager.idempotentHits.Inc()
}

// RecordRecalculation records one season rebuild.
func RecordRecalculation(durationMs float64, rows int, err error) {
	if err != nil {
		globalManager.recalculations.WithLabelValues("failure").Inc()
		return
	}
	globalManager.recalculations.WithLabelValues("success").Inc()
	globalManager.recalculationDuration.Observe(durationMs)
	globalManager.seasonTotalRows.Set(float64(rows))
	globalManager.lastRecalculationUnix.Set(float64(time.Now().Unix()))
}

// UpdateLeagueSize sets the entity count gauges.
func UpdateLeagueSize(players, contestants, scores int) {
	globalManager.players.Set(float64(players))
	globalManager.contestants.Set(float64(contestants))
	globalManager.scores.Set(float64(scores))
}

// RecordRepositoryQueryLatency records an entity store call.
func RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordRepositoryError counts an entity store failure.
func RecordRepositoryError(operation string) {
	globalManager.repositoryErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an HTTP error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
