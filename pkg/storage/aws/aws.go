// File: pkg/storage/aws/aws.go
package aws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kodoctl/internal/config"
	"kodoctl/internal/provider/registry"
	"kodoctl/pkg/common"
	"kodoctl/pkg/storage"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadURLExpiry = 15 * time.Minute

func init() {
	registry.RegisterProvider("s3", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "s3.region <region>",
	})
}

func isConfigured(cfg *config.Config) bool {
	return cfg.S3.Region != ""
}

func initialize(ctx context.Context, cfg *config.Config, creds storage.Credentials, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("S3 configuration missing or incomplete")
	}
	return NewAWSStorage(ctx, cfg.S3, creds, logger)
}

// Subset of *s3.Client used here
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type AWSStorage struct {
	client      s3API
	presigner   presignAPI
	signer      *v4.Signer
	credentials awssdk.Credentials
	region      string
	now         func() time.Time
	logger      *slog.Logger
}

var _ storage.Storage = (*AWSStorage)(nil)

// NewAWSStorage builds a client pinned to the given static credentials. A
// custom endpoint makes it usable against S3-compatible gateways such as Kodo's
func NewAWSStorage(ctx context.Context, cfg config.S3Config, creds storage.Credentials, logger *slog.Logger) (*AWSStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &AWSStorage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		signer:    v4.NewSigner(),
		credentials: awssdk.Credentials{
			AccessKeyID:     creds.AccessKey,
			SecretAccessKey: creds.SecretKey,
		},
		region: cfg.Region,
		now:    time.Now,
		logger: logger,
	}, nil
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

func (s *AWSStorage) Close() error {
	return nil
}
