package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

const objectPrefix = "campgrounds/"

// Storage is the asset store adapter backed by MinIO/S3 object storage.
type Storage struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
	logger  *logger.Logger
}

// NewStorage connects to the object store and ensures the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, timeout time.Duration, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing object storage", zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
		log.Info("Bucket already exists", zap.String("bucket", bucketName))
	}

	return &Storage{
		client:  client,
		bucket:  bucketName,
		timeout: timeout,
		logger:  log.Named("S3Storage"),
	}, nil
}

// Upload stores every payload under a generated key and returns one
// descriptor per input in input order. The batch is all-or-nothing: on the
// first failure, objects already stored in this batch are removed
// best-effort and the whole call fails with an upload AssetError.
func (s *Storage) Upload(ctx context.Context, files []domain.File) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(files))

	for i := range files {
		file := &files[i]
		objectKey := objectPrefix + uuid.New().String() + filepath.Ext(file.Name)

		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.client.PutObject(opCtx, s.bucket, objectKey,
			bytes.NewReader(file.Data), int64(len(file.Data)),
			minio.PutObjectOptions{ContentType: file.ContentType})
		cancel()
		// Drop the payload reference as soon as the attempt is over so
		// large buffers do not outlive the batch.
		file.Data = nil

		if err != nil {
			s.logger.Error("PutObject failed, rolling back batch",
				zap.String("bucket", s.bucket),
				zap.String("key", objectKey),
				zap.Int("uploaded_so_far", len(images)),
				zap.Error(err))
			s.rollback(ctx, images)
			return nil, &domain.AssetError{
				Kind:    domain.AssetUploadFailed,
				Message: fmt.Sprintf("upload of %q failed: %v", file.Name, err),
			}
		}

		images = append(images, domain.Image{
			URL:      fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey),
			Filename: objectKey,
		})
	}

	s.logger.Info("Uploaded image batch", zap.String("bucket", s.bucket), zap.Int("count", len(images)))
	return images, nil
}

// rollback removes objects stored by a failed batch. Failures here are only
// logged: the batch already failed and the caller never saw these keys.
func (s *Storage) rollback(ctx context.Context, stored []domain.Image) {
	for _, img := range stored {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := s.client.RemoveObject(opCtx, s.bucket, img.Filename, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("Failed to roll back uploaded object", zap.String("key", img.Filename), zap.Error(err))
		}
		cancel()
	}
}

// Remove deletes each identified asset independently. A failure on one
// identifier does not abort the rest; the identifiers that could not be
// deleted are returned for reconciliation.
func (s *Storage) Remove(ctx context.Context, identifiers []string) []string {
	var failed []string
	for _, id := range identifiers {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.client.RemoveObject(opCtx, s.bucket, id, minio.RemoveObjectOptions{})
		cancel()
		if err != nil {
			s.logger.Warn("RemoveObject failed", zap.String("bucket", s.bucket), zap.String("key", id), zap.Error(err))
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		s.logger.Error("Asset removal partially failed",
			zap.Int("requested", len(identifiers)),
			zap.Strings("failed_identifiers", failed))
	}
	return failed
}
