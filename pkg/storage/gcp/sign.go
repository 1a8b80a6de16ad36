// File: pkg/storage/gcp/sign.go
package gcp

import (
	"fmt"
	"net/http"
	"time"

	gcpstorage "cloud.google.com/go/storage"
)

func (g *GCPStorage) SignUpload(bucket, key string) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("bucket name cannot be empty")
	}
	return g.client.Bucket(bucket).SignedURL(key, g.signedURLOptions(http.MethodPut, uploadURLExpiry, ""))
}

// Signs a path-style URL; the host is kept so custom endpoints work
func (g *GCPStorage) SignDownloadURL(rawURL string, expiry time.Duration) (string, error) {
	host, bucket, object, err := splitObjectURL(rawURL)
	if err != nil {
		return "", err
	}
	return g.client.Bucket(bucket).SignedURL(object, g.signedURLOptions(http.MethodGet, expiry, host))
}

func (g *GCPStorage) signedURLOptions(method string, expiry time.Duration, host string) *gcpstorage.SignedURLOptions {
	opts := &gcpstorage.SignedURLOptions{
		Scheme:  gcpstorage.SigningSchemeV4,
		Method:  method,
		Expires: g.now().Add(expiry),
		Style:   gcpstorage.PathStyle(),
	}
	if g.creds.AccessKey != "" && g.creds.SecretKey != "" {
		opts.GoogleAccessID = g.creds.AccessKey
		opts.PrivateKey = []byte(g.creds.SecretKey)
	}
	if host != "" {
		opts.Hostname = host
	}
	return opts
}
