package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/application/analysis"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/storage/minio"
	"github.com/turtacn/ContractLens/internal/interfaces/http/middleware"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// DocumentStore keeps uploaded contract files.
type DocumentStore interface {
	SaveDocument(ctx context.Context, requestID, fileName, contentType string, data []byte) (*minio.UploadResult, error)
}

// AnalyzeRequest is the JSON body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text         string `json:"contract_text"`
	Language     string `json:"language"`
	BusinessRole string `json:"business_role"`
	Export       bool   `json:"export"`
}

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	svc       analysis.Service
	documents DocumentStore
	maxUpload int64
	log       logging.Logger
}

// NewAnalysisHandler wires the handler.  documents may be nil, in which case
// uploads are analysed but not stored.
func NewAnalysisHandler(svc analysis.Service, documents DocumentStore, maxUpload int64, log logging.Logger) *AnalysisHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisHandler{svc: svc, documents: documents, maxUpload: maxUpload, log: log}
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	h.limitBody(c)
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, errors.InputError("request body exceeds the upload limit").
				WithDetail("limit_bytes="+strconv.FormatInt(tooLarge.Limit, 10)))
			return
		}
		respondError(c, errors.InputError("request body must be a JSON object").WithCause(err))
		return
	}
	h.run(c, &analysis.AnalyzeRequest{
		Text:         req.Text,
		Language:     req.Language,
		BusinessRole: req.BusinessRole,
		Export:       req.Export,
	})
}

// AnalyzeFile handles POST /api/v1/analyze/file.  The multipart form carries
// a UTF-8 text file under "file" plus optional language, business_role and
// export fields.  Text extraction from PDF or DOCX happens before upload.
func (h *AnalysisHandler) AnalyzeFile(c *gin.Context) {
	h.limitBody(c)
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.InputError("multipart field \"file\" is required").WithCause(err))
		return
	}
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".txt", ".text", ".md":
	default:
		respondError(c, errors.InputError("only plain-text files (.txt, .md) are accepted").
			WithDetail("file="+fh.Filename))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, errors.InputError("uploaded file could not be read").WithCause(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, errors.InputError("uploaded file could not be read").WithCause(err))
		return
	}
	if !utf8.Valid(data) {
		respondError(c, errors.InputError("uploaded file is not UTF-8 text"))
		return
	}

	export, _ := strconv.ParseBool(c.PostForm("export"))
	req := &analysis.AnalyzeRequest{
		Text:         string(data),
		Language:     c.PostForm("language"),
		BusinessRole: c.PostForm("business_role"),
		Export:       export,
	}
	if h.documents != nil {
		req.RequestID = middleware.GetRequestID(c)
		if _, err := h.documents.SaveDocument(c.Request.Context(), req.RequestID, fh.Filename, "text/plain; charset=utf-8", data); err != nil {
			h.log.WithContext(c.Request.Context()).Warn("contract upload not archived", logging.Err(err))
		}
	}
	h.run(c, req)
}

// limitBody caps the request body at maxUpload bytes before anything reads it.
func (h *AnalysisHandler) limitBody(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
}

func (h *AnalysisHandler) run(c *gin.Context, req *analysis.AnalyzeRequest) {
	req.Source = "http"
	if req.RequestID == "" {
		req.RequestID = middleware.GetRequestID(c)
	}
	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
