// File: pkg/storage/gcp/objects.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"kodoctl/pkg/storage"

	gcpstorage "cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// ListPage fetches exactly one page by resuming the SDK iterator from the page token
func (g *GCPStorage) ListPage(ctx context.Context, query storage.ListingQuery, cursor string) (storage.ListingPage, error) {
	g.logger.Debug("Requesting GCS listing page", "bucket", query.Bucket, "prefix", query.Prefix, "delimiter", query.Delimiter, "token", cursor)

	it := g.client.Bucket(query.Bucket).Objects(ctx, &gcpstorage.Query{
		Prefix:    query.Prefix,
		Delimiter: query.Delimiter,
	})

	var attrs []*gcpstorage.ObjectAttrs
	nextToken, err := iterator.NewPager(it, g.pageSize, cursor).NextPage(&attrs)
	if err != nil {
		return storage.ListingPage{}, translateError(err)
	}

	page := storage.ListingPage{
		Items:  make([]storage.ObjectEntry, 0, len(attrs)),
		Cursor: nextToken,
		EOF:    nextToken == "",
	}
	for _, a := range attrs {
		// Synthetic directory entries produced by the delimiter carry only a prefix
		if a.Prefix != "" {
			continue
		}
		page.Items = append(page.Items, mapObjectEntry(a))
	}
	return page, nil
}

func (g *GCPStorage) Upload(ctx context.Context, bucket, key, localPath string) (storage.UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("error opening '%s': %w", localPath, err)
	}
	defer f.Close()

	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		w.ContentType = mt.String()
	}

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return storage.UploadResult{}, translateError(err)
	}
	if err := w.Close(); err != nil {
		return storage.UploadResult{}, translateError(err)
	}

	return storage.UploadResult{Bucket: bucket, Key: key, Hash: objectHash(w.Attrs())}, nil
}

// Maps GCP SDK object attributes to the listing model
func mapObjectEntry(attrs *gcpstorage.ObjectAttrs) storage.ObjectEntry {
	if attrs == nil {
		return storage.ObjectEntry{}
	}
	return storage.ObjectEntry{
		Key:  attrs.Name,
		Hash: objectHash(attrs),
		Size: attrs.Size,
	}
}

// Composite objects have no MD5, so fall back to CRC32C
func objectHash(attrs *gcpstorage.ObjectAttrs) string {
	if attrs == nil {
		return ""
	}
	if h := formatMD5(attrs.MD5); h != "" {
		return h
	}
	return formatCRC32C(attrs.CRC32C)
}

func translateError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && storage.IsAuthStatus(apiErr.Code) {
		return &storage.AuthError{Provider: "gcs", StatusCode: apiErr.Code, Err: err}
	}
	return err
}
