package prometheus

import (
	"fmt"
	"time"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Dictionary Layer
	DictionaryBuildDuration HistogramVec
	DictionaryEntities      GaugeVec
	DictionaryBuildFailures CounterVec
	SnapshotLoadsTotal      CounterVec

	// Source Layer
	SourceFetchesTotal CounterVec
	SourceFetchSeconds HistogramVec
	SourceRecordsTotal CounterVec
	SourceErrorsTotal  CounterVec

	// Resolution Layer
	ResolutionsTotal   CounterVec
	ResolutionDuration HistogramVec
	EntitiesEnriched   CounterVec
	UnknownTermsTotal  CounterVec

	// Pipeline Layer
	RunsTotal       CounterVec
	RunDuration     HistogramVec
	RunEntities     HistogramVec
	PipelineWorkers GaugeVec

	// Infrastructure Layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageProcessDuration HistogramVec

	// System Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultBuildDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	DefaultFetchDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultResolveBuckets       = []float64{.00001, .0001, .001, .01, .1, 1}
	DefaultEntityCountBuckets   = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Dictionary
	m.DictionaryBuildDuration = collector.RegisterHistogram("dictionary_build_duration_seconds", "Dictionary build duration", DefaultBuildDurationBuckets, "field")
	m.DictionaryEntities = collector.RegisterGauge("dictionary_entities", "Canonical entities per dictionary", "field")
	m.DictionaryBuildFailures = collector.RegisterCounter("dictionary_build_failures_total", "Dictionary builds that failed", "field", "reason")
	m.SnapshotLoadsTotal = collector.RegisterCounter("snapshot_loads_total", "Dictionary snapshot loads", "field", "result")

	// Sources
	m.SourceFetchesTotal = collector.RegisterCounter("source_fetches_total", "Lookup source fetches", "source", "result")
	m.SourceFetchSeconds = collector.RegisterHistogram("source_fetch_duration_seconds", "Lookup source fetch duration", DefaultFetchDurationBuckets, "source")
	m.SourceRecordsTotal = collector.RegisterCounter("source_records_total", "Records returned by lookup sources", "source")
	m.SourceErrorsTotal = collector.RegisterCounter("source_errors_total", "Lookup source failures", "source", "code")

	// Resolution
	m.ResolutionsTotal = collector.RegisterCounter("resolutions_total", "Term resolutions", "field", "status")
	m.ResolutionDuration = collector.RegisterHistogram("resolution_duration_seconds", "Single term resolution duration", DefaultResolveBuckets, "field")
	m.EntitiesEnriched = collector.RegisterCounter("entities_enriched_total", "Source entities enriched")
	m.UnknownTermsTotal = collector.RegisterCounter("unknown_terms_total", "Terms that resolved to unknown", "field")

	// Pipeline
	m.RunsTotal = collector.RegisterCounter("runs_total", "Pipeline runs", "status")
	m.RunDuration = collector.RegisterHistogram("run_duration_seconds", "Pipeline run duration", DefaultBuildDurationBuckets)
	m.RunEntities = collector.RegisterHistogram("run_entities", "Entities per pipeline run", DefaultEntityCountBuckets)
	m.PipelineWorkers = collector.RegisterGauge("pipeline_workers", "Active pipeline workers")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic", "event_type")

	// System Health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordDictionaryBuild(metrics *AppMetrics, field ontology.FieldType, entities int, duration time.Duration) {
	metrics.DictionaryBuildDuration.WithLabelValues(string(field)).Observe(duration.Seconds())
	metrics.DictionaryEntities.WithLabelValues(string(field)).Set(float64(entities))
}

func RecordSourceFetch(metrics *AppMetrics, source string, records int, duration time.Duration, err error) {
	metrics.SourceFetchSeconds.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		metrics.SourceFetchesTotal.WithLabelValues(source, "failure").Inc()
		return
	}
	metrics.SourceFetchesTotal.WithLabelValues(source, "success").Inc()
	metrics.SourceRecordsTotal.WithLabelValues(source).Add(float64(records))
}

func RecordRun(metrics *AppMetrics, entities int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RunsTotal.WithLabelValues(status).Inc()
	metrics.RunDuration.WithLabelValues().Observe(duration.Seconds())
	metrics.RunEntities.WithLabelValues().Observe(float64(entities))
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline observer
// ─────────────────────────────────────────────────────────────────────────────

// PipelineObserver feeds resolution events from the enrichment pipeline into
// the resolution metrics.  It satisfies the pipeline's Observer contract.
type PipelineObserver struct {
	metrics *AppMetrics
}

func NewPipelineObserver(metrics *AppMetrics) *PipelineObserver {
	return &PipelineObserver{metrics: metrics}
}

func (o *PipelineObserver) ObserveResolution(field ontology.FieldType, status ontology.MatchStatus) {
	o.metrics.ResolutionsTotal.WithLabelValues(string(field), string(status)).Inc()
	if status == ontology.StatusUnknown {
		o.metrics.UnknownTermsTotal.WithLabelValues(string(field)).Inc()
	}
}

func (o *PipelineObserver) ObserveEntity() {
	o.metrics.EntitiesEnriched.WithLabelValues().Inc()
}

//Personal.AI order the ending
