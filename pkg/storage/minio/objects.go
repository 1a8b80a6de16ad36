// File: pkg/storage/minio/objects.go
package minio

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kodoctl/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/signer"
)

func (m *MinIOStorage) ListPage(ctx context.Context, query storage.ListingQuery, cursor string) (storage.ListingPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingPage{}, err
	}

	m.logger.Debug("Requesting MinIO listing page", "bucket", query.Bucket, "prefix", query.Prefix, "delimiter", query.Delimiter, "token", cursor)

	result, err := m.pages.ListObjectsV2(query.Bucket, query.Prefix, "", cursor, query.Delimiter, defaultPageSize)
	if err != nil {
		return storage.ListingPage{}, translateError(err)
	}

	page := storage.ListingPage{
		Items:  make([]storage.ObjectEntry, 0, len(result.Contents)),
		Cursor: result.NextContinuationToken,
		EOF:    !result.IsTruncated,
	}
	for _, obj := range result.Contents {
		page.Items = append(page.Items, storage.ObjectEntry{
			Key:  obj.Key,
			Hash: strings.Trim(obj.ETag, `"`),
			Size: obj.Size,
		})
	}
	return page, nil
}

func (m *MinIOStorage) Upload(ctx context.Context, bucket, key, localPath string) (storage.UploadResult, error) {
	opts := miniogo.PutObjectOptions{}
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		opts.ContentType = mt.String()
	}

	info, err := m.objects.FPutObject(ctx, bucket, key, localPath, opts)
	if err != nil {
		return storage.UploadResult{}, translateError(err)
	}
	return storage.UploadResult{Bucket: bucket, Key: key, Hash: strings.Trim(info.ETag, `"`)}, nil
}

func (m *MinIOStorage) SignUpload(bucket, key string) (string, error) {
	u, err := m.objects.PresignedPutObject(context.Background(), bucket, key, uploadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("error presigning upload: %w", translateError(err))
	}
	return u.String(), nil
}

func (m *MinIOStorage) SignDownloadURL(rawURL string, expiry time.Duration) (string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL '%s': %w", rawURL, err)
	}
	signed := signer.PreSignV4(*req, m.creds.AccessKey, m.creds.SecretKey, "", m.region, int64(expiry/time.Second))
	return signed.URL.String(), nil
}

func translateError(err error) error {
	resp := miniogo.ToErrorResponse(err)
	if storage.IsAuthStatus(resp.StatusCode) {
		return &storage.AuthError{Provider: "minio", StatusCode: resp.StatusCode, Err: err}
	}
	return err
}
