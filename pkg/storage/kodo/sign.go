// File: pkg/storage/kodo/sign.go
package kodo

import (
	"fmt"
	"strings"
	"time"

	qstorage "github.com/qiniu/go-sdk/v7/storage"
)

// Returns an upload token scoped to exactly bucket:key, so the upload may overwrite that key.
// Without a key the token only allows creating new objects in the bucket
func (k *KodoStorage) SignUpload(bucket, key string) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("bucket name cannot be empty")
	}
	scope := bucket
	if key != "" {
		scope = bucket + ":" + key
	}
	policy := qstorage.PutPolicy{
		Scope:   scope,
		Expires: uint64(k.uploadTokenTTL / time.Second),
	}
	return policy.UploadToken(k.mac), nil
}

// Appends the deadline and an HMAC-SHA1 token over the full URL, as private Kodo domains require
func (k *KodoStorage) SignDownloadURL(rawURL string, expiry time.Duration) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	deadline := k.now().Add(expiry).Unix()

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	unsigned := fmt.Sprintf("%s%se=%d", rawURL, sep, deadline)

	return unsigned + "&token=" + k.mac.Sign([]byte(unsigned)), nil
}
