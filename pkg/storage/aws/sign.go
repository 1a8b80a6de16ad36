// File: pkg/storage/aws/sign.go
package aws

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 caps query-signed URLs at seven days
const maxPresignExpiry = 7 * 24 * time.Hour

// unsignedPayload is the payload hash for query-signed requests
const unsignedPayload = "UNSIGNED-PAYLOAD"

func (s *AWSStorage) SignUpload(bucket, key string) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("bucket name cannot be empty")
	}
	req, err := s.presigner.PresignPutObject(context.Background(), &s3.PutObjectInput{
		Bucket: awssdk.String(bucket),
		Key:    awssdk.String(key),
	}, s3.WithPresignExpires(uploadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("error presigning upload: %w", err)
	}
	return req.URL, nil
}

// Presigns an arbitrary object URL with SigV4 query parameters
func (s *AWSStorage) SignDownloadURL(rawURL string, expiry time.Duration) (string, error) {
	if expiry <= 0 || expiry > maxPresignExpiry {
		return "", fmt.Errorf("expiry must be between 1s and %s, got %s", maxPresignExpiry, expiry)
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL '%s': %w", rawURL, err)
	}
	q := req.URL.Query()
	q.Set("X-Amz-Expires", strconv.FormatInt(int64(expiry/time.Second), 10))
	req.URL.RawQuery = q.Encode()

	signed, _, err := s.signer.PresignHTTP(context.Background(), s.credentials, req, unsignedPayload, "s3", s.region, s.now())
	if err != nil {
		return "", fmt.Errorf("error presigning download URL: %w", err)
	}
	return signed, nil
}
