// File: pkg/storage/storage.go
package storage

import (
	"context"
	"time"

	"kodoctl/pkg/common"
)

// Signer derives credentialed tokens and URLs. Implementations are pure
// functions of their credential pair and inputs
type Signer interface {
	// Returns a token (or presigned URL) authorizing one upload of bucket/key
	SignUpload(bucket, key string) (string, error)
	// Returns a time-limited URL granting read access to rawURL
	SignDownloadURL(rawURL string, expiry time.Duration) (string, error)
}

// PageFetcher issues a single listing request. An empty cursor requests the first page
type PageFetcher interface {
	ListPage(ctx context.Context, query ListingQuery, cursor string) (ListingPage, error)
}

// ObjectUploader stores one local file under bucket/key
type ObjectUploader interface {
	Upload(ctx context.Context, bucket, key, localPath string) (UploadResult, error)
}

// Storage is the surface every backend provider implements
type Storage interface {
	Signer
	PageFetcher
	ObjectUploader
	ProviderName() common.Provider
	Close() error
}
