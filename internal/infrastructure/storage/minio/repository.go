package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrUploadFailed   = errors.New(errors.ErrCodeStorageError, "upload failed")
	ErrDownloadFailed = errors.New(errors.ErrCodeStorageError, "download failed")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

// ObjectStorageRepository is a bucket/key object store.
type ObjectStorageRepository interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error)
	Delete(ctx context.Context, bucket, objectKey string) error
	Exists(ctx context.Context, bucket, objectKey string) (bool, error)
	List(ctx context.Context, bucket, prefix string, maxKeys int) ([]*ObjectMetadata, error)
	GetPresignedDownloadURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error)
}

type UploadRequest struct {
	Bucket      string
	ObjectKey   string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type UploadResult struct {
	Bucket     string    `json:"bucket"`
	ObjectKey  string    `json:"object_key"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DownloadResult struct {
	Data         []byte
	ContentType  string
	Size         int64
	ETag         string
	Metadata     map[string]string
	LastModified time.Time
}

type ObjectMetadata struct {
	Bucket       string
	ObjectKey    string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

type minioRepository struct {
	client  *MinIOClient
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

func NewMinIORepository(client *MinIOClient, log logging.Logger, metrics *prometheus.AppMetrics) ObjectStorageRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioRepository{client: client, logger: log, metrics: metrics}
}

func (r *minioRepository) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil || req.Bucket == "" || req.ObjectKey == "" {
		return nil, ErrInvalidRequest
	}
	if r.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}
	contentType := req.ContentType
	if contentType == "" && len(req.Data) > 0 {
		contentType = http.DetectContentType(req.Data[:min(512, len(req.Data))])
	}

	info, err := r.client.GetClient().PutObject(ctx, req.Bucket, req.ObjectKey,
		bytes.NewReader(req.Data), int64(len(req.Data)),
		minio.PutObjectOptions{ContentType: contentType, UserMetadata: req.Metadata})
	prometheus.RecordStorageOperation(r.metrics, req.Bucket, "put", err == nil)
	if err != nil {
		return nil, ErrUploadFailed.WithCause(err).WithDetail(req.Bucket + "/" + req.ObjectKey)
	}

	r.logger.Debug("object uploaded",
		logging.String("bucket", req.Bucket),
		logging.String("key", req.ObjectKey),
		logging.Int64("size", info.Size))
	return &UploadResult{
		Bucket:     req.Bucket,
		ObjectKey:  req.ObjectKey,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (r *minioRepository) Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error) {
	if r.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}
	obj, err := r.client.GetClient().GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		prometheus.RecordStorageOperation(r.metrics, bucket, "get", false)
		return nil, ErrDownloadFailed.WithCause(err).WithDetail(bucket + "/" + objectKey)
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		prometheus.RecordStorageOperation(r.metrics, bucket, "get", false)
		if isNoSuchKey(err) {
			return nil, ErrObjectNotFound.WithDetail(bucket + "/" + objectKey)
		}
		return nil, ErrDownloadFailed.WithCause(err).WithDetail(bucket + "/" + objectKey)
	}

	data, err := io.ReadAll(obj)
	prometheus.RecordStorageOperation(r.metrics, bucket, "get", err == nil)
	if err != nil {
		return nil, ErrDownloadFailed.WithCause(err).WithDetail(bucket + "/" + objectKey)
	}

	return &DownloadResult{
		Data:         data,
		ContentType:  stat.ContentType,
		Size:         stat.Size,
		ETag:         stat.ETag,
		Metadata:     stat.UserMetadata,
		LastModified: stat.LastModified,
	}, nil
}

func (r *minioRepository) Delete(ctx context.Context, bucket, objectKey string) error {
	err := r.client.GetClient().RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{})
	prometheus.RecordStorageOperation(r.metrics, bucket, "delete", err == nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "delete failed").WithDetail(bucket + "/" + objectKey)
	}
	return nil
}

func (r *minioRepository) Exists(ctx context.Context, bucket, objectKey string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "stat failed").WithDetail(bucket + "/" + objectKey)
	}
	return true, nil
}

func (r *minioRepository) List(ctx context.Context, bucket, prefix string, maxKeys int) ([]*ObjectMetadata, error) {
	if maxKeys <= 0 {
		maxKeys = 1000
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []*ObjectMetadata
	for obj := range r.client.GetClient().ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "list failed").WithDetail(bucket + "/" + prefix)
		}
		objects = append(objects, &ObjectMetadata{
			Bucket:       bucket,
			ObjectKey:    obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
		if len(objects) >= maxKeys {
			break
		}
	}
	return objects, nil
}

func (r *minioRepository) GetPresignedDownloadURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error) {
	return r.client.GeneratePresignedGetURL(ctx, bucket, objectKey, expiry)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

//Personal.AI order the ending
