package minio

import (
	"context"
	stderrors "errors"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/ContractLens/pkg/errors"
)

type ClientTestSuite struct {
	suite.Suite
	api    *MockMinIOAPI
	client *MinIOClient
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.client = NewMinIOClientWithAPI(s.api, &MinIOConfig{ExportRetentionDays: 30}, nil)
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	s.Equal("us-east-1", cfg.Region)
	s.Equal(time.Hour, cfg.PresignExpiry)
	s.Equal("contractlens-documents", cfg.Buckets.Documents)
	s.Equal("contractlens-audit", cfg.Buckets.Audit)
	s.Equal("contractlens-exports", cfg.Buckets.Exports)
}

func (s *ClientTestSuite) TestEnsureBuckets_CreatesMissing() {
	s.api.On("BucketExists", mock.Anything, "contractlens-documents").Return(true, nil)
	s.api.On("BucketExists", mock.Anything, "contractlens-audit").Return(false, nil)
	s.api.On("BucketExists", mock.Anything, "contractlens-exports").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s.Require().NoError(s.client.EnsureBuckets(context.Background()))
	s.api.AssertNumberOfCalls(s.T(), "MakeBucket", 2)
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, "contractlens-documents", mock.Anything)
}

func (s *ClientTestSuite) TestEnsureBuckets_Error() {
	s.api.On("BucketExists", mock.Anything, mock.Anything).Return(false, stderrors.New("denied"))
	err := s.client.EnsureBuckets(context.Background())
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeStorageError))
}

func (s *ClientTestSuite) TestSetupLifecycleRules_FailureIsLogged() {
	s.api.On("SetBucketLifecycle", mock.Anything, "contractlens-exports", mock.Anything).Return(stderrors.New("not implemented"))
	s.client.SetupLifecycleRules(context.Background())
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "contractlens-audit").Return(false, nil)
	s.api.On("BucketExists", mock.Anything, mock.Anything).Return(true, nil)

	status, err := s.client.HealthCheck(context.Background())
	s.Require().NoError(err)
	s.False(status.Healthy)
	s.Equal("bucket contractlens-audit missing", status.Error)
	s.True(status.BucketStatuses["contractlens-documents"])
}

func (s *ClientTestSuite) TestHealthCheck_Closed() {
	s.Require().NoError(s.client.Close())
	_, err := s.client.HealthCheck(context.Background())
	s.ErrorIs(err, ErrMinIOClientClosed)
}

func (s *ClientTestSuite) TestGetBucketStats() {
	ch := make(chan minio.ObjectInfo, 2)
	later := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	ch <- minio.ObjectInfo{Key: "a", Size: 10, LastModified: later.Add(-time.Hour)}
	ch <- minio.ObjectInfo{Key: "b", Size: 5, LastModified: later}
	close(ch)
	s.api.On("BucketExists", mock.Anything, "b1").Return(true, nil)
	s.api.On("ListObjects", mock.Anything, "b1", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	stats, err := s.client.GetBucketStats(context.Background(), "b1")
	s.Require().NoError(err)
	s.Equal(int64(2), stats.ObjectCount)
	s.Equal(int64(15), stats.TotalSize)
	s.Equal(later, stats.LastModified)
}

func (s *ClientTestSuite) TestGetBucketStats_Missing() {
	s.api.On("BucketExists", mock.Anything, "nope").Return(false, nil)
	_, err := s.client.GetBucketStats(context.Background(), "nope")
	s.ErrorIs(err, ErrBucketNotFound)
}

func (s *ClientTestSuite) TestPresign_DefaultExpiry() {
	u, _ := url.Parse("http://minio/contractlens-exports/reports/r.json?sig=x")
	s.api.On("PresignedGetObject", mock.Anything, "contractlens-exports", "reports/r.json", time.Hour, mock.Anything).Return(u, nil)

	got, err := s.client.GeneratePresignedGetURL(context.Background(), "contractlens-exports", "reports/r.json", 0)
	s.Require().NoError(err)
	s.Equal(u.String(), got)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestNewMinIOClientWithAPI_NilConfig(t *testing.T) {
	c := NewMinIOClientWithAPI(new(MockMinIOAPI), nil, nil)
	require.NotNil(t, c)
	assert.Equal(t, "contractlens-exports", c.Buckets().Exports)
}

//Personal.AI order the ending
