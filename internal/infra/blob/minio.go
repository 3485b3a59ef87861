// Package blob stores exam PDFs in an S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"deptsite/internal/domain/entity"
)

// Store is the blob operations needed by the exam upload flow.
type Store interface {
	// Upload stores a PDF and returns its object key.
	Upload(ctx context.Context, r io.Reader, size int64) (string, error)

	// PresignedURL returns a time-limited download URL for an object key.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Remove deletes an object. Used to roll back an upload when the
	// database insert fails.
	Remove(ctx context.Context, key string) error
}

// Config contains the connection settings for the bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements Store on a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the bucket backend. It does not verify the
// bucket; call EnsureBucket during startup.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Upload stores a PDF under a fresh exams/<uuid>.pdf key.
func (s *MinioStore) Upload(ctx context.Context, r io.Reader, size int64) (string, error) {
	key := newObjectKey()
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: entity.ExamPDFContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	return key, nil
}

// PresignedURL returns a time-limited download URL for an object key.
func (s *MinioStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", key, err)
	}
	return u.String(), nil
}

// Remove deletes an object.
func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func newObjectKey() string {
	return "exams/" + uuid.New().String() + ".pdf"
}
