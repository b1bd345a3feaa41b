// File: internal/platform/objectstorage/minio.go
package objectstorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"giventake_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioStorage implements Service on top of a MinIO/S3 compatible backend.
type MinioStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

var _ Service = (*MinioStorage)(nil)

// NewMinioStorage creates the client and ensures the bucket exists.
func NewMinioStorage(cfg *config.Config, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.StorageEndpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.StorageBucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.StorageBucket, err, errExists)
		}
		logger.Debug("Object storage bucket already exists", zap.String("bucket", cfg.StorageBucket))
	} else {
		logger.Info("Object storage bucket created", zap.String("bucket", cfg.StorageBucket))
	}

	publicBaseURL := strings.TrimSuffix(cfg.StoragePublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = client.EndpointURL().String()
	}

	logger.Info("Object storage client initialized",
		zap.String("endpoint", cfg.StorageEndpoint),
		zap.String("bucket", cfg.StorageBucket),
	)

	return &MinioStorage{
		client:        client,
		bucket:        cfg.StorageBucket,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}, nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		s.logger.Error("Object upload failed",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	return s.PublicURL(key), nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("Object removal failed",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *MinioStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s in bucket %s: %w", prefix, s.bucket, object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

func (s *MinioStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
}

func (s *MinioStorage) KeyFromURL(url string) string {
	prefix := fmt.Sprintf("%s/%s/", s.publicBaseURL, s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
