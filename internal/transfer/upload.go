// File: internal/transfer/upload.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"kodoctl/pkg/storage"

	"github.com/spf13/afero"
)

// Uploader checks the local file and hands it to a backend
type Uploader struct {
	fs      afero.Fs
	backend storage.ObjectUploader
	logger  *slog.Logger
}

func NewUploader(fs afero.Fs, backend storage.ObjectUploader, logger *slog.Logger) *Uploader {
	return &Uploader{
		fs:      fs,
		backend: backend,
		logger:  logger.With("component", "Uploader"),
	}
}

// Returns key, or the base name of localPath when key is empty
func DefaultKey(localPath, key string) string {
	if key != "" {
		return key
	}
	return filepath.Base(localPath)
}

// Upload stores localPath under bucket/key. Failures are reported as *storage.UploadError
func (u *Uploader) Upload(ctx context.Context, localPath, bucket, key string) (storage.UploadResult, error) {
	key = DefaultKey(localPath, key)

	info, err := u.fs.Stat(localPath)
	if err != nil {
		return storage.UploadResult{}, &storage.UploadError{Bucket: bucket, Key: key, Err: fmt.Errorf("cannot read '%s': %w", localPath, err)}
	}
	if !info.Mode().IsRegular() {
		return storage.UploadResult{}, &storage.UploadError{Bucket: bucket, Key: key, Err: fmt.Errorf("'%s' is not a regular file", localPath)}
	}

	u.logger.Debug("Uploading file", "path", localPath, "bucket", bucket, "key", key, "size", info.Size())

	result, err := u.backend.Upload(ctx, bucket, key, localPath)
	if err != nil {
		var uploadErr *storage.UploadError
		if errors.As(err, &uploadErr) {
			return storage.UploadResult{}, err
		}
		return storage.UploadResult{}, &storage.UploadError{Bucket: bucket, Key: key, Err: err}
	}

	if result.Key == "" {
		result.Key = key
	}
	if result.Bucket == "" {
		result.Bucket = bucket
	}
	return result, nil
}
