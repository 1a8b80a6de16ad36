// File: pkg/storage/kodo/objects.go
package kodo

import (
	"context"
	"errors"

	"kodoctl/pkg/storage"

	qstorage "github.com/qiniu/go-sdk/v7/storage"
)

func (k *KodoStorage) ListPage(ctx context.Context, query storage.ListingQuery, cursor string) (storage.ListingPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListingPage{}, err
	}

	k.logger.Debug("Requesting Kodo listing page", "bucket", query.Bucket, "prefix", query.Prefix, "delimiter", query.Delimiter, "marker", cursor)

	entries, _, nextMarker, hasNext, err := k.lister.ListFiles(query.Bucket, query.Prefix, query.Delimiter, cursor, k.pageSize)
	if err != nil {
		return storage.ListingPage{}, translateError(err)
	}

	page := storage.ListingPage{
		Items:  make([]storage.ObjectEntry, 0, len(entries)),
		Cursor: nextMarker,
		EOF:    !hasNext,
	}
	for _, item := range entries {
		page.Items = append(page.Items, mapListItem(item))
	}
	return page, nil
}

func (k *KodoStorage) Upload(ctx context.Context, bucket, key, localPath string) (storage.UploadResult, error) {
	token, err := k.SignUpload(bucket, key)
	if err != nil {
		return storage.UploadResult{}, err
	}

	var ret qstorage.PutRet
	if err := k.uploader.PutFile(ctx, &ret, token, key, localPath, nil); err != nil {
		return storage.UploadResult{}, translateError(err)
	}

	k.logger.Debug("Kodo upload complete", "bucket", bucket, "key", ret.Key, "hash", ret.Hash)
	return storage.UploadResult{Bucket: bucket, Key: ret.Key, Hash: ret.Hash}, nil
}

func mapListItem(item qstorage.ListItem) storage.ObjectEntry {
	return storage.ObjectEntry{
		Key:  item.Key,
		Hash: item.Hash,
		Size: item.Fsize,
	}
}

// Implemented by the SDK's error info type
type httpCoder interface {
	HttpCode() int
}

func translateError(err error) error {
	var coded httpCoder
	if errors.As(err, &coded) && storage.IsAuthStatus(coded.HttpCode()) {
		return &storage.AuthError{Provider: "kodo", StatusCode: coded.HttpCode(), Err: err}
	}
	return err
}
