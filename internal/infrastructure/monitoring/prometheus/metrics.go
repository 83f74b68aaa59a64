package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the ContractLens processes emit.  A nil
// *AppMetrics is valid: all Record helpers are no-ops on nil.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis pipeline
	AnalysisRunsTotal     CounterVec
	AnalysisDuration      HistogramVec
	AnalysisClauseCount   HistogramVec
	ClauseRiskTotal       CounterVec
	StageDegradations     CounterVec
	CompositeRiskScore    HistogramVec
	AnalysisActiveWorkers GaugeVec

	// Text generation
	TextGenRequestsTotal   CounterVec
	TextGenRequestDuration HistogramVec

	// Infrastructure
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessagesTotal          CounterVec
	MessageProcessDuration HistogramVec
	StorageOperationsTotal CounterVec
	HealthCheckStatus      GaugeVec
	ErrorsTotal            CounterVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultTextGenDurationBuckets  = []float64{.25, .5, 1, 2, 4, 8, 16}
	DefaultClauseCountBuckets      = []float64{1, 5, 10, 20, 40, 80, 160, 320}
	DefaultRiskScoreBuckets        = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.AnalysisRunsTotal = collector.RegisterCounter("analysis_runs_total", "Contract analysis runs by outcome", "outcome")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "End-to-end analysis duration", DefaultAnalysisDurationBuckets, "outcome")
	m.AnalysisClauseCount = collector.RegisterHistogram("analysis_clauses", "Clauses per analysed contract", DefaultClauseCountBuckets, "segmentation_mode")
	m.ClauseRiskTotal = collector.RegisterCounter("clause_risk_total", "Clauses classified per risk level", "level")
	m.StageDegradations = collector.RegisterCounter("stage_degradations_total", "Stages that fell back to a conservative default", "stage")
	m.CompositeRiskScore = collector.RegisterHistogram("composite_risk_score", "Composite contract risk score", DefaultRiskScoreBuckets, "contract_type")
	m.AnalysisActiveWorkers = collector.RegisterGauge("analysis_active_workers", "Clause workers currently busy")

	m.TextGenRequestsTotal = collector.RegisterCounter("textgen_requests_total", "Text-generation calls", "backend", "operation", "status")
	m.TextGenRequestDuration = collector.RegisterHistogram("textgen_request_duration_seconds", "Text-generation call duration", DefaultTextGenDurationBuckets, "backend", "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessagesTotal = collector.RegisterCounter("mq_messages_total", "Messages produced or consumed", "topic", "direction", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message handling duration", DefaultHTTPDurationBuckets, "topic")
	m.StorageOperationsTotal = collector.RegisterCounter("storage_operations_total", "Object storage operations", "bucket", "operation", "status")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysisRun records one finished Analyze call.  outcome is
// "success", "input_error" or "failure".
func RecordAnalysisRun(m *AppMetrics, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisRunsTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordAnalysisShape records the per-result distribution metrics.
func RecordAnalysisShape(m *AppMetrics, contractType, segmentationMode string, clauses int, riskLevels []string, score int) {
	if m == nil {
		return
	}
	m.AnalysisClauseCount.WithLabelValues(segmentationMode).Observe(float64(clauses))
	for _, lvl := range riskLevels {
		m.ClauseRiskTotal.WithLabelValues(lvl).Inc()
	}
	m.CompositeRiskScore.WithLabelValues(contractType).Observe(float64(score))
}

func RecordStageDegradation(m *AppMetrics, stage string) {
	if m == nil {
		return
	}
	m.StageDegradations.WithLabelValues(stage).Inc()
}

func RecordTextGenCall(m *AppMetrics, backend, operation string, ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.TextGenRequestsTotal.WithLabelValues(backend, operation, statusLabel(ok)).Inc()
	m.TextGenRequestDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordMessage records a produced ("out") or consumed ("in") message.
func RecordMessage(m *AppMetrics, topic, direction string, ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(topic, direction, statusLabel(ok)).Inc()
	if direction == "in" {
		m.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
	}
}

func RecordStorageOperation(m *AppMetrics, bucket, operation string, ok bool) {
	if m == nil {
		return
	}
	m.StorageOperationsTotal.WithLabelValues(bucket, operation, statusLabel(ok)).Inc()
}

func RecordHealth(m *AppMetrics, component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// TrackActiveWorker increments the busy-worker gauge and returns the matching
// decrement.
func TrackActiveWorker(m *AppMetrics) func() {
	if m == nil {
		return func() {}
	}
	g := m.AnalysisActiveWorkers.WithLabelValues()
	g.Inc()
	return g.Dec
}

func TrackInFlightRequest(m *AppMetrics) func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPActiveRequests.WithLabelValues()
	g.Inc()
	return g.Dec
}

func RecordError(m *AppMetrics, component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
