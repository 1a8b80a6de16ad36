// File: pkg/storage/aws/objects.go
package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"kodoctl/pkg/storage"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
)

func (s *AWSStorage) ListPage(ctx context.Context, query storage.ListingQuery, cursor string) (storage.ListingPage, error) {
	s.logger.Debug("Requesting S3 listing page", "bucket", query.Bucket, "prefix", query.Prefix, "delimiter", query.Delimiter, "token", cursor)

	input := &s3.ListObjectsV2Input{
		Bucket: awssdk.String(query.Bucket),
	}
	if query.Prefix != "" {
		input.Prefix = awssdk.String(query.Prefix)
	}
	if query.Delimiter != "" {
		input.Delimiter = awssdk.String(query.Delimiter)
	}
	if cursor != "" {
		input.ContinuationToken = awssdk.String(cursor)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return storage.ListingPage{}, translateError(err)
	}

	page := storage.ListingPage{
		Items:  make([]storage.ObjectEntry, 0, len(out.Contents)),
		Cursor: awssdk.ToString(out.NextContinuationToken),
		EOF:    !awssdk.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		page.Items = append(page.Items, mapObject(obj))
	}
	return page, nil
}

func (s *AWSStorage) Upload(ctx context.Context, bucket, key, localPath string) (storage.UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("error opening '%s': %w", localPath, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: awssdk.String(bucket),
		Key:    awssdk.String(key),
		Body:   f,
	}
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		input.ContentType = awssdk.String(mt.String())
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return storage.UploadResult{}, translateError(err)
	}

	return storage.UploadResult{Bucket: bucket, Key: key, Hash: trimETag(awssdk.ToString(out.ETag))}, nil
}

func mapObject(obj types.Object) storage.ObjectEntry {
	return storage.ObjectEntry{
		Key:  awssdk.ToString(obj.Key),
		Hash: trimETag(awssdk.ToString(obj.ETag)),
		Size: awssdk.ToInt64(obj.Size),
	}
}

// S3 returns ETags wrapped in double quotes
func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}

func translateError(err error) error {
	var re *awshttp.ResponseError
	if errors.As(err, &re) && storage.IsAuthStatus(re.HTTPStatusCode()) {
		return &storage.AuthError{Provider: "s3", StatusCode: re.HTTPStatusCode(), Err: err}
	}
	return err
}
