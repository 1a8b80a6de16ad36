// File: pkg/storage/gcp/mappers.go
package gcp

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Converts the binary MD5 hash provided by GCP SDK into a standard Base64 encoded string
func formatMD5(hash []byte) string {
	if len(hash) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(hash)
}

// Converts the uint32 CRC32C checksum provided by GCP SDK into a standard Base64 encoded string
func formatCRC32C(crc32c uint32) string {
	if crc32c == 0 {
		return ""
	}
	b := []byte{
		byte(crc32c >> 24),
		byte(crc32c >> 16),
		byte(crc32c >> 8),
		byte(crc32c),
	}
	return base64.StdEncoding.EncodeToString(b)
}

// Splits a path-style object URL (https://host/bucket/object/key) into its bucket and object
func splitObjectURL(rawURL string) (host, bucket, object string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid URL '%s': %w", rawURL, err)
	}

	bucket, object, found := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !found || bucket == "" || object == "" {
		return "", "", "", fmt.Errorf("URL '%s' is not of the form <host>/<bucket>/<object>", rawURL)
	}
	return u.Host, bucket, object, nil
}
