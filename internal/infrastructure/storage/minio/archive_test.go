package minio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

type memRepo struct {
	objects map[string]*UploadRequest
}

func newMemRepo() *memRepo { return &memRepo{objects: map[string]*UploadRequest{}} }

func (m *memRepo) Upload(_ context.Context, req *UploadRequest) (*UploadResult, error) {
	m.objects[req.Bucket+"/"+req.ObjectKey] = req
	return &UploadResult{Bucket: req.Bucket, ObjectKey: req.ObjectKey, Size: int64(len(req.Data))}, nil
}

func (m *memRepo) Download(_ context.Context, bucket, key string) (*DownloadResult, error) {
	o, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &DownloadResult{Data: o.Data, ContentType: o.ContentType}, nil
}

func (m *memRepo) Delete(_ context.Context, bucket, key string) error {
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memRepo) Exists(_ context.Context, bucket, key string) (bool, error) {
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func (m *memRepo) List(_ context.Context, bucket, prefix string, _ int) ([]*ObjectMetadata, error) {
	var out []*ObjectMetadata
	for k := range m.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			out = append(out, &ObjectMetadata{Bucket: bucket, ObjectKey: strings.TrimPrefix(k, bucket+"/")})
		}
	}
	return out, nil
}

func (m *memRepo) GetPresignedDownloadURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "http://minio/" + bucket + "/" + key, nil
}

func newTestArchive() (*ContractArchive, *memRepo) {
	repo := newMemRepo()
	a := NewContractArchive(repo, BucketConfig{Documents: "docs", Audit: "audit", Exports: "exports"})
	a.now = func() time.Time { return time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC) }
	return a, repo
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "nda_v2.pdf", sanitizeName("../../nda v2.pdf"))
	assert.Equal(t, "lease.txt", sanitizeName(`C:\Users\me\lease.txt`))
	assert.Equal(t, "contract.txt", sanitizeName(""))
	assert.Equal(t, "contract.txt", sanitizeName(".."))
}

func TestSaveDocument(t *testing.T) {
	a, repo := newTestArchive()
	res, err := a.SaveDocument(context.Background(), "req-1", "My NDA.txt", "text/plain", []byte("body"))
	require.NoError(t, err)
	assert.Equal(t, "contracts/2026/03/09/req-1/My_NDA.txt", res.ObjectKey)
	assert.Equal(t, "req-1", repo.objects["docs/"+res.ObjectKey].Metadata["request-id"])

	_, err = a.SaveDocument(context.Background(), "", "x", "", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSaveAndLoadReport(t *testing.T) {
	a, _ := newTestArchive()
	result := &contract.AnalysisResult{
		ContractOverview: contract.ContractOverview{ContractType: "Lease Agreement"},
		RiskScore:        contract.RiskScore{Composite: 37, Interpretation: "Needs Review"},
	}

	res, err := a.SaveReport(context.Background(), "req-2", result)
	require.NoError(t, err)
	assert.Equal(t, "reports/req-2.json", res.ObjectKey)

	back, err := a.LoadReport(context.Background(), "req-2")
	require.NoError(t, err)
	assert.Equal(t, "Lease Agreement", back.ContractOverview.ContractType)
	assert.Equal(t, 37, back.RiskScore.Composite)

	_, err = a.LoadReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestReportURL(t *testing.T) {
	a, _ := newTestArchive()
	_, err := a.ReportURL(context.Background(), "req-3", 0)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = a.SaveReport(context.Background(), "req-3", &contract.AnalysisResult{})
	require.NoError(t, err)
	u, err := a.ReportURL(context.Background(), "req-3", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://minio/exports/reports/req-3.json", u)
}

func TestSaveAuditBatch(t *testing.T) {
	a, _ := newTestArchive()
	at := time.Date(2026, 10, 1, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	res, err := a.SaveAuditBatch(context.Background(), "b1", at, []byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "audit/2026/10/01/b1.jsonl", res.ObjectKey)

	_, err = a.SaveAuditBatch(context.Background(), "b2", at, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
