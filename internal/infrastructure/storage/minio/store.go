package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/pkg/errors"
)

// Store implements the document.ObjectStore port over one bucket.
type Store struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
}

// NewStore wraps an established client.
func NewStore(client *minio.Client, cfg config.MinIOConfig) *Store {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Store{client: client, bucket: cfg.Bucket, presignExpiry: expiry}
}

// Upload stores data under key.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageFailed, "upload object")
	}
	return nil
}

// Download fetches the full object.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "fetch object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.NewNotFoundError("object not found: " + key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageFailed, "read object")
	}
	return data, nil
}

// PresignDownload returns a time-limited download link for review tooling.
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageFailed, "presign download")
	}
	return u.String(), nil
}
