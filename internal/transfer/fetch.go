// File: internal/transfer/fetch.go
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kodoctl/pkg/storage"
)

// Fetcher downloads objects through signed, time-limited URLs
type Fetcher struct {
	client *http.Client
	signer storage.Signer
	expiry time.Duration
	logger *slog.Logger
}

func NewFetcher(client *http.Client, signer storage.Signer, expiry time.Duration, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
		signer: signer,
		expiry: expiry,
		logger: logger.With("component", "Fetcher"),
	}
}

// Joins a download domain and an object key the way the backend expects
func ObjectURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}

// Fetch signs baseURL/key and returns the full response body. Any status
// outside 2xx yields a *storage.FetchError and no bytes
func (f *Fetcher) Fetch(ctx context.Context, baseURL, key string) ([]byte, error) {
	signedURL, err := f.signer.SignDownloadURL(ObjectURL(baseURL, key), f.expiry)
	if err != nil {
		return nil, fmt.Errorf("error signing download URL for '%s': %w", key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building download request for '%s': %w", key, err)
	}

	f.logger.Debug("Fetching object", "key", key, "expiry", f.expiry)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading '%s': %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &storage.FetchError{Key: key, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body for '%s': %w", key, err)
	}

	f.logger.Debug("Fetched object", "key", key, "bytes", len(body))
	return body, nil
}
