package database

import (
	"context"
	"fmt"

	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// NewObjectStore creates an S3-compatible client and makes sure the upload bucket exists.
func NewObjectStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.StorageBucket).Msg("Storage bucket created")
	}

	log.Info().
		Str("endpoint", cfg.StorageEndpoint).
		Str("bucket", cfg.StorageBucket).
		Msg("Object storage connected")

	return client, nil
}
