package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)
	return m, c
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordHTTPRequest(m, "POST", "/api/v1/analyze", 200, 100*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/v1/analyze",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/v1/analyze"} 1`)
}

func TestRecordAnalysisRunAndShape(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordAnalysisRun(m, "success", 250*time.Millisecond)
	RecordAnalysisShape(m, "Service Agreement", "headings", 3, []string{"Low", "High", "High"}, 40)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_analysis_runs_total{outcome="success"} 1`)
	assert.Contains(t, out, `test_unit_clause_risk_total{level="High"} 2`)
	assert.Contains(t, out, `test_unit_clause_risk_total{level="Low"} 1`)
	assert.Contains(t, out, `test_unit_composite_risk_score_sum{contract_type="Service Agreement"} 40`)
	assert.Contains(t, out, `test_unit_analysis_clauses_count{segmentation_mode="headings"} 1`)
}

func TestRecordStageDegradation(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordStageDegradation(m, "clause")
	RecordStageDegradation(m, "clause")

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_stage_degradations_total{stage="clause"} 2`)
}

func TestRecordTextGenCall(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordTextGenCall(m, "anthropic", "translate", false, time.Second)

	assert.Contains(t, scrapeMetrics(t, c),
		`test_unit_textgen_requests_total{backend="anthropic",operation="translate",status="failure"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordCacheAccess(m, "textgen", true)
	RecordCacheAccess(m, "textgen", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="textgen"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="textgen"} 1`)
}

func TestRecordMessageStorageHealth(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordMessage(m, "audit.log", "in", true, 5*time.Millisecond)
	RecordStorageOperation(m, "contractlens-audit", "put", true)
	RecordHealth(m, "redis", true)
	RecordError(m, "kafka", "publish")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_mq_messages_total{direction="in",status="success",topic="audit.log"} 1`)
	assert.Contains(t, out, `test_unit_storage_operations_total{bucket="contractlens-audit",operation="put",status="success"} 1`)
	assert.Contains(t, out, `test_unit_health_check_status{component="redis"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{component="kafka",error_type="publish"} 1`)
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, 0)
		RecordAnalysisRun(nil, "success", 0)
		RecordAnalysisShape(nil, "", "", 0, nil, 0)
		RecordStageDegradation(nil, "x")
		RecordTextGenCall(nil, "", "", true, 0)
		RecordCacheAccess(nil, "", true)
		RecordMessage(nil, "", "", true, 0)
		RecordStorageOperation(nil, "", "", true)
		RecordHealth(nil, "", true)
		RecordError(nil, "", "")
	})
}

func TestConcurrentMetricRecording(t *testing.T) {
	m, c := newTestAppMetrics(t)
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				RecordAnalysisRun(m, "success", time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_analysis_runs_total{outcome="success"} 1000`)
}

//Personal.AI order the ending
