package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	ContractText string `json:"contract_text"`
	// Language is "english" (default) or "hindi".
	Language     string `json:"language,omitempty"`
	BusinessRole string `json:"business_role,omitempty"`
	// Export asks the server to keep the result in its exports bucket.
	Export bool `json:"export,omitempty"`
}

// AuditRecord is the audit trail returned alongside every result.
type AuditRecord struct {
	EventID          string                  `json:"event_id"`
	RequestID        string                  `json:"request_id"`
	TimestampUTC     time.Time               `json:"timestamp_utc"`
	Source           string                  `json:"source,omitempty"`
	Actions          []string                `json:"actions"`
	RiskFlagsSummary []contract.FairnessFlag `json:"risk_flags_summary"`
	Meta             AuditMeta               `json:"meta"`
	InputSHA256      string                  `json:"input_sha256"`
	SegmentationMode string                  `json:"segmentation_mode"`
	Degradations     []string                `json:"degradations"`
	CompositeScore   int                     `json:"composite_score"`
}

// AuditMeta is the request context recorded in an audit record.
type AuditMeta struct {
	JurisdictionScope string `json:"jurisdiction_scope"`
	BusinessRoleInput string `json:"business_role_input,omitempty"`
}

// AnalyzeResponse is the result of one analysis run.
type AnalyzeResponse struct {
	RequestID string                   `json:"request_id"`
	Result    *contract.AnalysisResult `json:"result"`
	Audit     *AuditRecord             `json:"audit"`
	// ReportKey is set when the request asked for export and the server
	// stored the result.
	ReportKey string `json:"report_key,omitempty"`
}

// FileUpload is a plain-text contract sent as multipart form data.
type FileUpload struct {
	FileName     string
	Content      []byte
	Language     string
	BusinessRole string
	Export       bool
}

// ReportURL is a time-limited download link for an exported result.
type ReportURL struct {
	RequestID string    `json:"request_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

// Analyze runs the full pipeline on req.ContractText.
func (c *Client) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil || req.ContractText == "" {
		return nil, errors.InputError("client: contract text is required")
	}
	var out AnalyzeResponse
	if err := c.postJSON(ctx, "/api/v1/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeFile uploads a .txt or .md contract.  The server archives the
// upload when object storage is configured.
func (c *Client) AnalyzeFile(ctx context.Context, up *FileUpload) (*AnalyzeResponse, error) {
	if up == nil || up.FileName == "" || len(up.Content) == 0 {
		return nil, errors.InputError("client: file name and content are required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := fw.Write(up.Content); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	fields := map[string]string{
		"language":      up.Language,
		"business_role": up.BusinessRole,
	}
	if up.Export {
		fields["export"] = strconv.FormatBool(true)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/analyze/file",
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	})
	if err != nil {
		return nil, err
	}
	var out AnalyzeResponse
	if err := decode(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// GetReport fetches an exported result by request ID.
func (c *Client) GetReport(ctx context.Context, requestID string) (*contract.AnalysisResult, error) {
	if requestID == "" {
		return nil, errors.InputError("client: request id is required")
	}
	var out contract.AnalysisResult
	if err := c.getJSON(ctx, "/api/v1/reports/"+url.PathEscape(requestID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReportURL returns a presigned download link for an exported result.
func (c *Client) GetReportURL(ctx context.Context, requestID string) (*ReportURL, error) {
	if requestID == "" {
		return nil, errors.InputError("client: request id is required")
	}
	var out ReportURL
	if err := c.getJSON(ctx, "/api/v1/reports/"+url.PathEscape(requestID)+"/url", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
