// File: pkg/storage/minio/client.go
package minio

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"kodoctl/internal/config"
	"kodoctl/internal/provider/registry"
	"kodoctl/pkg/common"
	"kodoctl/pkg/storage"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	defaultRegion   = "us-east-1"
	defaultPageSize = 1000
	uploadURLExpiry = 15 * time.Minute
)

func init() {
	registry.RegisterProvider("minio", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "minio.endpoint <host:port>",
	})
}

func isConfigured(cfg *config.Config) bool {
	return cfg.MinIO.Endpoint != ""
}

func initialize(ctx context.Context, cfg *config.Config, creds storage.Credentials, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("MinIO configuration missing or incomplete")
	}
	return NewMinIOStorage(cfg.MinIO, creds, logger)
}

// Page-level listing from miniogo.Core
type pageAPI interface {
	ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (miniogo.ListBucketV2Result, error)
}

// Subset of *miniogo.Client used here
type objectAPI interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
}

type MinIOStorage struct {
	pages   pageAPI
	objects objectAPI
	creds   storage.Credentials
	region  string
	logger  *slog.Logger
}

var _ storage.Storage = (*MinIOStorage)(nil)

func NewMinIOStorage(cfg config.MinIOConfig, creds storage.Credentials, logger *slog.Logger) (*MinIOStorage, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, ""),
		Secure: cfg.Secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStorage{
		pages:   miniogo.Core{Client: client},
		objects: client,
		creds:   creds,
		region:  region,
		logger:  logger,
	}, nil
}

func (m *MinIOStorage) ProviderName() common.Provider {
	return common.MinIO
}

func (m *MinIOStorage) Close() error {
	return nil
}
