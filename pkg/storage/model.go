// File: pkg/storage/model.go
package storage

import "fmt"

// Credentials is the access/secret pair used to sign backend requests.
// It is loaded once by the command layer and passed explicitly to providers
type Credentials struct {
	AccessKey string
	SecretKey string
}

// Returns a copy safe for logging
func (c Credentials) Redacted() Credentials {
	return Credentials{AccessKey: c.AccessKey, SecretKey: mask(c.SecretKey)}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// ObjectEntry is one stored object's metadata at listing time
type ObjectEntry struct {
	Key  string
	Hash string
	Size int64
}

// ListingQuery is fixed for the duration of one listing operation
type ListingQuery struct {
	Bucket string `validate:"required"`
	// An empty prefix applies no filter
	Prefix string
	// An empty delimiter disables hierarchical grouping
	Delimiter string
}

// ListingPage is the result of one listing request
type ListingPage struct {
	Items []ObjectEntry
	// Opaque token for the next request; meaningless once EOF is set
	Cursor string
	EOF    bool
}

type UploadResult struct {
	Bucket string
	Key    string
	Hash   string
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
