package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

const analyzeBody = `{
  "request_id": "req-42",
  "result": {
    "contract_overview": {"contract_type": "Lease Agreement", "explanation": "A lease."},
    "language": "english",
    "risk_analysis": {
      "clause_risk_table": [
        {"clause_number": 3, "heading": "3. Termination", "risk_level": "High", "flags": ["unilateral_termination"]}
      ]
    },
    "risk_score": {"composite_risk_score_0_to_100": 67, "interpretation": "High risk"}
  },
  "audit": {
    "event_id": "e-1",
    "request_id": "req-42",
    "timestamp_utc": "2026-01-02T03:04:05Z",
    "source": "http",
    "meta": {"jurisdiction_scope": "India"},
    "segmentation_mode": "headings",
    "degradations": [],
    "composite_score": 67
  },
  "report_key": "reports/req-42.json"
}`

func TestAnalyze(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "The Tenant shall pay rent.", got["contract_text"])
		assert.Equal(t, "tenant", got["business_role"])
		assert.Equal(t, true, got["export"])
		assert.NotContains(t, got, "language")

		w.Write([]byte(analyzeBody))
	})

	resp, err := c.Analyze(context.Background(), &AnalyzeRequest{
		ContractText: "The Tenant shall pay rent.",
		BusinessRole: "tenant",
		Export:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.RequestID)
	assert.Equal(t, "reports/req-42.json", resp.ReportKey)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "Lease Agreement", resp.Result.ContractOverview.ContractType)
	require.Len(t, resp.Result.RiskAnalysis.ClauseRisks, 1)
	assert.Equal(t, contract.RiskHigh, resp.Result.RiskAnalysis.ClauseRisks[0].RiskLevel)
	assert.Equal(t, 67, resp.Result.RiskScore.Composite)
	require.NotNil(t, resp.Audit)
	assert.Equal(t, "India", resp.Audit.Meta.JurisdictionScope)
	assert.Equal(t, "headings", resp.Audit.SegmentationMode)
}

func TestAnalyze_RejectsEmptyTextLocally(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Analyze(context.Background(), &AnalyzeRequest{})
	assert.True(t, errors.IsInputError(err))
	_, err = c.Analyze(context.Background(), nil)
	assert.True(t, errors.IsInputError(err))
}

func TestAnalyze_ServerRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, "ANALYSIS_001", "contract text is empty")
	})
	_, err := c.Analyze(context.Background(), &AnalyzeRequest{ContractText: "   "})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsInputRejected())
	assert.Equal(t, "ANALYSIS_001", apiErr.Code)
}

func TestAnalyzeFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analyze/file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hindi", r.FormValue("language"))
		assert.Equal(t, "true", r.FormValue("export"))
		assert.Empty(t, r.FormValue("business_role"))

		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "lease.txt", fh.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "1. Rent\nPay on time.", string(data))

		w.Write([]byte(analyzeBody))
	})

	resp, err := c.AnalyzeFile(context.Background(), &FileUpload{
		FileName: "lease.txt",
		Content:  []byte("1. Rent\nPay on time."),
		Language: "hindi",
		Export:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.RequestID)
}

func TestAnalyzeFile_Validation(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)
	_, err = c.AnalyzeFile(context.Background(), &FileUpload{FileName: "x.txt"})
	assert.True(t, errors.IsInputError(err))
}

func TestGetReport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/req-42", r.URL.Path)
		w.Write([]byte(`{"contract_overview":{"contract_type":"NDA"},"risk_score":{"composite_risk_score_0_to_100":12}}`))
	})

	res, err := c.GetReport(context.Background(), "req-42")
	require.NoError(t, err)
	assert.Equal(t, "NDA", res.ContractOverview.ContractType)
	assert.Equal(t, 12, res.RiskScore.Composite)

	_, err = c.GetReport(context.Background(), "")
	assert.True(t, errors.IsInputError(err))
}

func TestGetReportURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/req-42/url", r.URL.Path)
		w.Write([]byte(`{"request_id":"req-42","url":"https://minio.local/x?sig=1","expires_at":"2026-01-02T03:19:05Z"}`))
	})

	u, err := c.GetReportURL(context.Background(), "req-42")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/x?sig=1", u.URL)
	assert.Equal(t, 2026, u.ExpiresAt.Year())
}

func TestTemplates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/templates":
			w.Write([]byte(`{"templates":[{"id":"nda_mutual_sme","name":"Mutual NDA","filename":"nda_mutual_sme.txt"}]}`))
		case "/api/v1/templates/nda_mutual_sme":
			assert.Equal(t, "text/plain", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("MUTUAL NON-DISCLOSURE AGREEMENT"))
		case "/api/v1/catalog/templates":
			assert.Equal(t, "lease", r.URL.Query().Get("domain"))
			w.Write([]byte(`{"templates":[{"id":"lease_rent","heading":"Rent","intent":"Payment","domains":["lease"]}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	list, err := c.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "nda_mutual_sme.txt", list[0].Filename)

	body, err := c.DownloadTemplate(ctx, "nda_mutual_sme")
	require.NoError(t, err)
	assert.Equal(t, "MUTUAL NON-DISCLOSURE AGREEMENT", string(body))

	clauses, err := c.ListClauseTemplates(ctx, "lease")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Payment", clauses[0].Intent)

	_, err = c.DownloadTemplate(ctx, "")
	assert.True(t, errors.IsInputError(err))
}

//Personal.AI order the ending
