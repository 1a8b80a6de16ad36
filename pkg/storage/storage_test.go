package storage

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchError_ExposesAuthErrorForRejectedCredentials(t *testing.T) {
	err := fmt.Errorf("get: %w", &FetchError{Key: "a", StatusCode: http.StatusForbidden})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "a", fetchErr.Key)
}

func TestFetchError_NotFoundIsNotAuth(t *testing.T) {
	var authErr *AuthError
	assert.False(t, errors.As(&FetchError{Key: "a", StatusCode: http.StatusNotFound}, &authErr))
}

func TestListingError_Message(t *testing.T) {
	err := &ListingError{Bucket: "logs", Page: 3, Emitted: 2000, Err: errors.New("timeout")}
	assert.Equal(t, "listing bucket 'logs' failed on page 3 after 2000 entries: timeout", err.Error())
}

func TestCompressionError_IncludesOutput(t *testing.T) {
	err := &CompressionError{ExitCode: 2, Output: "tar: x: Cannot stat", Err: errors.New("exit status 2")}
	assert.Contains(t, err.Error(), "exit code 2")
	assert.Contains(t, err.Error(), "Cannot stat")
}

func TestCredentials_Redacted(t *testing.T) {
	c := Credentials{AccessKey: "ak", SecretKey: "sk"}.Redacted()
	assert.Equal(t, "ak", c.AccessKey)
	assert.Equal(t, "****", c.SecretKey)
	assert.Empty(t, Credentials{}.Redacted().SecretKey)
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		-1:              "N/A",
		0:               "0 B",
		512:             "512 B",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatBytes(in), "FormatBytes(%d)", in)
	}
}
