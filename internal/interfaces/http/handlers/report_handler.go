package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// DefaultReportURLExpiry bounds presigned report links.
const DefaultReportURLExpiry = 15 * time.Minute

// ReportReader reads exported analysis reports.
type ReportReader interface {
	LoadReport(ctx context.Context, requestID string) (*contract.AnalysisResult, error)
	ReportURL(ctx context.Context, requestID string, expiry time.Duration) (string, error)
}

// ReportHandler serves reports exported with export=true.
type ReportHandler struct {
	reports ReportReader
	expiry  time.Duration
}

func NewReportHandler(reports ReportReader, expiry time.Duration) *ReportHandler {
	if expiry <= 0 {
		expiry = DefaultReportURLExpiry
	}
	return &ReportHandler{reports: reports, expiry: expiry}
}

// Get handles GET /api/v1/reports/:request_id.
func (h *ReportHandler) Get(c *gin.Context) {
	id := c.Param("request_id")
	if id == "" {
		respondError(c, errors.InvalidParam("request_id is required"))
		return
	}
	res, err := h.reports.LoadReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// URL handles GET /api/v1/reports/:request_id/url.
func (h *ReportHandler) URL(c *gin.Context) {
	id := c.Param("request_id")
	url, err := h.reports.ReportURL(c.Request.Context(), id, h.expiry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": id,
		"url":        url,
		"expires_at": time.Now().Add(h.expiry).UTC(),
	})
}

//Personal.AI order the ending
