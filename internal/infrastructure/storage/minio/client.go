// Package minio stores the original uploaded files.  The pipeline only
// needs bytes-in/bytes-out plus presigned links for review tooling, so the
// surface here is deliberately small.
package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/pkg/errors"
)

// NewClient connects and ensures the configured bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "connect to object storage")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExternalService, "create bucket")
		}
	}
	return client, nil
}
