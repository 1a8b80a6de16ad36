// File: internal/service/object_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"kodoctl/internal/archive"
	"kodoctl/internal/lister"
	"kodoctl/internal/provider/factory"
	"kodoctl/internal/transfer"
	"kodoctl/pkg/storage"

	"github.com/spf13/afero"
)

// Target names the backend and the credential pair every request is signed with
type Target struct {
	Provider    string
	Credentials storage.Credentials
}

type ArchiveRequest struct {
	InPath    string
	OutPrefix string
	Bucket    string
	KeyPrefix string
	Delimiter string
}

type ArchiveResult struct {
	Artifact string
	Upload   storage.UploadResult
	// Set when the artifact could not be removed after the upload attempt
	CleanupErr error
}

type ObjectService struct {
	providerFactory *factory.Factory
	fs              afero.Fs
	httpClient      *http.Client
	downloadExpiry  time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

func NewObjectService(providerFactory *factory.Factory, fs afero.Fs, httpClient *http.Client, downloadExpiry time.Duration, logger *slog.Logger) *ObjectService {
	return &ObjectService{
		providerFactory: providerFactory,
		fs:              fs,
		httpClient:      httpClient,
		downloadExpiry:  downloadExpiry,
		now:             time.Now,
		logger:          logger.With("service", "ObjectService"),
	}
}

// --- Upload ---

func (s *ObjectService) Upload(ctx context.Context, target Target, localPath, bucket, key string) (storage.UploadResult, error) {
	s.logger.Debug("Starting Upload operation", "path", localPath, "bucket", bucket, "key", key, "provider", target.Provider)

	client, err := s.getStorageClient(ctx, target)
	if err != nil {
		return storage.UploadResult{}, err
	}
	defer client.Close()

	result, err := transfer.NewUploader(s.fs, client, s.logger).Upload(ctx, localPath, bucket, key)
	if err != nil {
		s.logger.Error("Failed to upload file", "path", localPath, "bucket", bucket, "provider", target.Provider, "error", err)
		return storage.UploadResult{}, err
	}
	return result, nil
}

// --- Listing ---

// ListObjects yields every entry of the query in backend order. The client is
// released when the sequence ends or the consumer stops early
func (s *ObjectService) ListObjects(ctx context.Context, target Target, query storage.ListingQuery) iter.Seq2[storage.ObjectEntry, error] {
	return func(yield func(storage.ObjectEntry, error) bool) {
		s.logger.Debug("Starting ListObjects operation", "bucket", query.Bucket, "prefix", query.Prefix, "delimiter", query.Delimiter, "provider", target.Provider)

		client, err := s.getStorageClient(ctx, target)
		if err != nil {
			yield(storage.ObjectEntry{}, err)
			return
		}
		defer client.Close()

		for entry, err := range lister.New(client, s.logger).List(ctx, query) {
			if err != nil {
				s.logger.Error("Failed to list objects", "bucket", query.Bucket, "provider", target.Provider, "error", err)
			}
			if !yield(entry, err) {
				return
			}
		}
	}
}

// --- Download ---

func (s *ObjectService) Fetch(ctx context.Context, target Target, baseURL, key string) ([]byte, error) {
	s.logger.Debug("Starting Fetch operation", "url", baseURL, "key", key, "provider", target.Provider)

	client, err := s.getStorageClient(ctx, target)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := transfer.NewFetcher(s.httpClient, client, s.downloadExpiry, s.logger).Fetch(ctx, baseURL, key)
	if err != nil {
		s.logger.Error("Failed to fetch object", "url", baseURL, "key", key, "provider", target.Provider, "error", err)
		return nil, err
	}
	return data, nil
}

// Download fetches the object and writes it to outPath, replacing any existing file
func (s *ObjectService) Download(ctx context.Context, target Target, baseURL, key, outPath string) (int, error) {
	data, err := s.Fetch(ctx, target, baseURL, key)
	if err != nil {
		return 0, err
	}

	if err := afero.WriteFile(s.fs, outPath, data, 0644); err != nil {
		s.logger.Error("Failed to write downloaded object", "path", outPath, "error", err)
		return 0, fmt.Errorf("error writing '%s': %w", outPath, err)
	}
	return len(data), nil
}

// Reports whether path already exists on the service filesystem
func (s *ObjectService) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// --- Signing ---

func (s *ObjectService) SignUpload(ctx context.Context, target Target, bucket, key string) (string, error) {
	client, err := s.getStorageClient(ctx, target)
	if err != nil {
		return "", err
	}
	defer client.Close()

	token, err := client.SignUpload(bucket, key)
	if err != nil {
		s.logger.Error("Failed to sign upload", "bucket", bucket, "key", key, "provider", target.Provider, "error", err)
		return "", err
	}
	return token, nil
}

// Signs baseURL/key; a zero expiry falls back to the configured download expiry
func (s *ObjectService) SignURL(ctx context.Context, target Target, baseURL, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.downloadExpiry
	}

	client, err := s.getStorageClient(ctx, target)
	if err != nil {
		return "", err
	}
	defer client.Close()

	signed, err := client.SignDownloadURL(transfer.ObjectURL(baseURL, key), expiry)
	if err != nil {
		s.logger.Error("Failed to sign download URL", "url", baseURL, "key", key, "provider", target.Provider, "error", err)
		return "", err
	}
	return signed, nil
}

// --- Archive ---

// ArchiveAndUpload compresses req.InPath into a dated artifact in the working
// directory and uploads it. When compression fails nothing is uploaded or
// removed. Once the artifact exists it is removed after the upload attempt
// whatever its outcome
func (s *ObjectService) ArchiveAndUpload(ctx context.Context, target Target, compressor archive.Compressor, req ArchiveRequest) (ArchiveResult, error) {
	artifact := archive.ArtifactName(req.OutPrefix, s.now())
	result := ArchiveResult{Artifact: artifact}

	s.logger.Debug("Starting ArchiveAndUpload operation", "path", req.InPath, "artifact", artifact, "bucket", req.Bucket, "provider", target.Provider)

	if err := compressor.Compress(ctx, req.InPath, artifact); err != nil {
		s.logger.Error("Failed to compress input", "path", req.InPath, "artifact", artifact, "error", err)
		return result, err
	}

	key := archive.ObjectKey(req.KeyPrefix, req.Delimiter, filepath.Base(artifact))
	upload, uploadErr := s.Upload(ctx, target, artifact, req.Bucket, key)
	result.Upload = upload
	result.CleanupErr = s.removeArtifact(artifact)

	if uploadErr != nil {
		return result, uploadErr
	}
	return result, nil
}

func (s *ObjectService) removeArtifact(artifact string) error {
	err := s.fs.Remove(artifact)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove local artifact", "artifact", artifact, "error", err)
		return fmt.Errorf("error removing '%s': %w", artifact, err)
	}
	return nil
}

// Helper to initialize the storage client and handle common error logging
func (s *ObjectService) getStorageClient(ctx context.Context, target Target) (storage.Storage, error) {
	s.logger.Debug("Initializing provider", "provider", target.Provider, "credentials", target.Credentials.Redacted())

	client, err := s.providerFactory.GetStorageProvider(ctx, target.Provider, target.Credentials)
	if err != nil {
		s.logger.Error("Failed to initialize provider", "provider", target.Provider, "error", err)
		return nil, fmt.Errorf("error initializing provider: %w", err)
	}
	s.logger.Debug("Provider initialized", "backend", client.ProviderName())
	return client, nil
}
