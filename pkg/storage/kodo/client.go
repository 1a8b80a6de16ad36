// File: pkg/storage/kodo/client.go
package kodo

import (
	"context"
	"log/slog"
	"time"

	"kodoctl/internal/config"
	"kodoctl/internal/provider/registry"
	"kodoctl/pkg/common"
	"kodoctl/pkg/storage"

	"github.com/qiniu/go-sdk/v7/auth"
	qstorage "github.com/qiniu/go-sdk/v7/storage"
)

const (
	// Upper bound the list API accepts per request
	defaultPageSize       = 1000
	defaultUploadTokenTTL = time.Hour
)

func init() {
	registry.RegisterProvider("kodo", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "kodo.region <region-id>",
	})
}

// Kodo resolves bucket regions on its own, so nothing beyond credentials is required
func isConfigured(cfg *config.Config) bool {
	return true
}

func initialize(ctx context.Context, cfg *config.Config, creds storage.Credentials, logger *slog.Logger) (storage.Storage, error) {
	return NewKodoStorage(creds, cfg.Kodo, logger), nil
}

// Matches qstorage.BucketManager
type bucketLister interface {
	ListFiles(bucket, prefix, delimiter, marker string, limit int) (entries []qstorage.ListItem, commonPrefixes []string, nextMarker string, hasNext bool, err error)
}

// Matches qstorage.FormUploader
type fileUploader interface {
	PutFile(ctx context.Context, ret interface{}, uptoken, key, localFile string, extra *qstorage.PutExtra) error
}

type KodoStorage struct {
	mac            *auth.Credentials
	lister         bucketLister
	uploader       fileUploader
	pageSize       int
	uploadTokenTTL time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

var _ storage.Storage = (*KodoStorage)(nil)

func NewKodoStorage(creds storage.Credentials, cfg config.KodoConfig, logger *slog.Logger) *KodoStorage {
	mac := auth.New(creds.AccessKey, creds.SecretKey)

	qcfg := &qstorage.Config{UseHTTPS: cfg.UseHTTPS}
	if cfg.Region != "" {
		if region, ok := qstorage.GetRegionByID(qstorage.RegionID(cfg.Region)); ok {
			qcfg.Region = &region
		} else {
			logger.Warn("Unknown Kodo region, falling back to automatic lookup", "region", cfg.Region)
		}
	}

	return &KodoStorage{
		mac:            mac,
		lister:         qstorage.NewBucketManager(mac, qcfg),
		uploader:       qstorage.NewFormUploader(qcfg),
		pageSize:       defaultPageSize,
		uploadTokenTTL: defaultUploadTokenTTL,
		now:            time.Now,
		logger:         logger,
	}
}

func (k *KodoStorage) ProviderName() common.Provider {
	return common.Kodo
}

// The SDK clients hold no connections of their own
func (k *KodoStorage) Close() error {
	return nil
}
