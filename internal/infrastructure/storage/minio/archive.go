package minio

import (
	"context"
	"encoding/json"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// ContractArchive lays out ContractLens objects over an
// ObjectStorageRepository:
//
//	documents: contracts/<yyyy>/<mm>/<dd>/<request_id>/<file name>
//	exports:   reports/<request_id>.json
//	audit:     audit/<yyyy>/<mm>/<dd>/<batch_id>.jsonl
type ContractArchive struct {
	repo    ObjectStorageRepository
	buckets BucketConfig
	now     func() time.Time
}

func NewContractArchive(repo ObjectStorageRepository, buckets BucketConfig) *ContractArchive {
	return &ContractArchive{repo: repo, buckets: buckets, now: time.Now}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "contract.txt"
	}
	return name
}

func datePrefix(t time.Time) string {
	return t.UTC().Format("2006/01/02")
}

// SaveDocument stores the submitted contract source.
func (a *ContractArchive) SaveDocument(ctx context.Context, requestID, fileName, contentType string, data []byte) (*UploadResult, error) {
	if requestID == "" {
		return nil, ErrInvalidRequest.WithDetail("request id required")
	}
	key := path.Join("contracts", datePrefix(a.now()), requestID, sanitizeName(fileName))
	return a.repo.Upload(ctx, &UploadRequest{
		Bucket:      a.buckets.Documents,
		ObjectKey:   key,
		Data:        data,
		ContentType: contentType,
		Metadata:    map[string]string{"request-id": requestID},
	})
}

func reportKey(requestID string) string {
	return "reports/" + requestID + ".json"
}

// SaveReport stores an analysis result as JSON.
func (a *ContractArchive) SaveReport(ctx context.Context, requestID string, result *contract.AnalysisResult) (*UploadResult, error) {
	if requestID == "" || result == nil {
		return nil, ErrInvalidRequest.WithDetail("request id and result required")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal report")
	}
	return a.repo.Upload(ctx, &UploadRequest{
		Bucket:      a.buckets.Exports,
		ObjectKey:   reportKey(requestID),
		Data:        data,
		ContentType: "application/json",
		Metadata: map[string]string{
			"request-id":    requestID,
			"contract-type": result.ContractOverview.ContractType,
		},
	})
}

// LoadReport reads back a report saved by SaveReport.
func (a *ContractArchive) LoadReport(ctx context.Context, requestID string) (*contract.AnalysisResult, error) {
	res, err := a.repo.Download(ctx, a.buckets.Exports, reportKey(requestID))
	if err != nil {
		return nil, err
	}
	var out contract.AnalysisResult
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode report").WithDetail("request_id=" + requestID)
	}
	return &out, nil
}

// ReportURL returns a presigned download link for a saved report.
func (a *ContractArchive) ReportURL(ctx context.Context, requestID string, expiry time.Duration) (string, error) {
	ok, err := a.repo.Exists(ctx, a.buckets.Exports, reportKey(requestID))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrObjectNotFound.WithDetail("request_id=" + requestID)
	}
	return a.repo.GetPresignedDownloadURL(ctx, a.buckets.Exports, reportKey(requestID), expiry)
}

// SaveAuditBatch stores newline-delimited audit records.
func (a *ContractArchive) SaveAuditBatch(ctx context.Context, batchID string, at time.Time, lines []byte) (*UploadResult, error) {
	if batchID == "" || len(lines) == 0 {
		return nil, ErrInvalidRequest.WithDetail("batch id and records required")
	}
	key := path.Join("audit", datePrefix(at), batchID+".jsonl")
	return a.repo.Upload(ctx, &UploadRequest{
		Bucket:      a.buckets.Audit,
		ObjectKey:   key,
		Data:        lines,
		ContentType: "application/x-ndjson",
	})
}

//Personal.AI order the ending
