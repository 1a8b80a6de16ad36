// File: pkg/storage/errors.go
package storage

import (
	"fmt"
	"net/http"
)

// AuthError reports that the backend rejected the credentials. Missing
// credentials are not checked up front, so this only surfaces on the first
// backend call
type AuthError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected the credentials (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ListingError reports a failed page request. Entries emitted before the
// failure remain valid
type ListingError struct {
	Bucket string
	// 1-based number of the page whose request failed
	Page int
	// Entries already handed to the caller
	Emitted int
	Err     error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing bucket '%s' failed on page %d after %d entries: %v", e.Bucket, e.Page, e.Emitted, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

type UploadError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of '%s' to bucket '%s' failed: %v", e.Key, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// FetchError carries the non-success status of a signed download
type FetchError struct {
	Key        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching '%s' failed with status %d", e.Key, e.StatusCode)
}

// Exposes an AuthError for 401/403 so callers can treat both uniformly
func (e *FetchError) Unwrap() error {
	if IsAuthStatus(e.StatusCode) {
		return &AuthError{Provider: "download", StatusCode: e.StatusCode, Err: fmt.Errorf("%s", http.StatusText(e.StatusCode))}
	}
	return nil
}

// CompressionError reports an exit status outside the accepted set.
// ExitCode is -1 when the tool could not be started at all
type CompressionError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *CompressionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("compression failed with exit code %d: %v: %s", e.ExitCode, e.Err, e.Output)
	}
	return fmt.Sprintf("compression failed with exit code %d: %v", e.ExitCode, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

func IsAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
