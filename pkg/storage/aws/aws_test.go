package aws

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kodoctl/pkg/storage"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	ListObjectsV2Func func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObjectFunc     func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return m.ListObjectsV2Func(ctx, params, optFns...)
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.PutObjectFunc(ctx, params, optFns...)
}

type mockPresigner struct {
	input *s3.PutObjectInput
}

func (m *mockPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	m.input = params
	return &v4.PresignedHTTPRequest{URL: "https://b1.s3.amazonaws.com/" + awssdk.ToString(params.Key) + "?X-Amz-Signature=abc", Method: http.MethodPut}, nil
}

func newTestStorage(client s3API) *AWSStorage {
	return &AWSStorage{
		client:      client,
		presigner:   &mockPresigner{},
		signer:      v4.NewSigner(),
		credentials: awssdk.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"},
		region:      "us-east-1",
		now:         func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestListPage_MapsContentsAndToken(t *testing.T) {
	var got *s3.ListObjectsV2Input
	client := &mockS3{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			got = params
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: awssdk.String("logs/a.log"), ETag: awssdk.String(`"9b2cf535f27731c974343645a3985328"`), Size: awssdk.Int64(42)},
				},
				IsTruncated:           awssdk.Bool(true),
				NextContinuationToken: awssdk.String("next-1"),
			}, nil
		},
	}
	s := newTestStorage(client)

	page, err := s.ListPage(context.Background(), storage.ListingQuery{Bucket: "b1", Prefix: "logs/", Delimiter: "/"}, "tok-0")

	require.NoError(t, err)
	assert.Equal(t, []storage.ObjectEntry{{Key: "logs/a.log", Hash: "9b2cf535f27731c974343645a3985328", Size: 42}}, page.Items)
	assert.Equal(t, "next-1", page.Cursor)
	assert.False(t, page.EOF)

	assert.Equal(t, "b1", awssdk.ToString(got.Bucket))
	assert.Equal(t, "logs/", awssdk.ToString(got.Prefix))
	assert.Equal(t, "/", awssdk.ToString(got.Delimiter))
	assert.Equal(t, "tok-0", awssdk.ToString(got.ContinuationToken))
}

func TestListPage_FirstPageOmitsEmptyParameters(t *testing.T) {
	var got *s3.ListObjectsV2Input
	client := &mockS3{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			got = params
			return &s3.ListObjectsV2Output{}, nil
		},
	}

	page, err := newTestStorage(client).ListPage(context.Background(), storage.ListingQuery{Bucket: "b1"}, "")

	require.NoError(t, err)
	assert.True(t, page.EOF)
	assert.Nil(t, got.Prefix)
	assert.Nil(t, got.Delimiter)
	assert.Nil(t, got.ContinuationToken)
}

func TestListPage_ForbiddenIsAuthError(t *testing.T) {
	client := &mockS3{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return nil, &awshttp.ResponseError{
				ResponseError: &smithyhttp.ResponseError{
					Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusForbidden}},
					Err:      errors.New("AccessDenied"),
				},
			}
		},
	}

	_, err := newTestStorage(client).ListPage(context.Background(), storage.ListingQuery{Bucket: "b1"}, "")

	var authErr *storage.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
}

func TestUpload_DetectsContentType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain words only\n"), 0644))

	var got *s3.PutObjectInput
	var body []byte
	client := &mockS3{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			got = params
			body, _ = io.ReadAll(params.Body)
			return &s3.PutObjectOutput{ETag: awssdk.String(`"abc123"`)}, nil
		},
	}

	result, err := newTestStorage(client).Upload(context.Background(), "b1", "notes.txt", path)

	require.NoError(t, err)
	assert.Equal(t, storage.UploadResult{Bucket: "b1", Key: "notes.txt", Hash: "abc123"}, result)
	assert.True(t, strings.HasPrefix(awssdk.ToString(got.ContentType), "text/plain"))
	assert.Equal(t, "plain words only\n", string(body))
}

func TestSignUpload(t *testing.T) {
	s := newTestStorage(&mockS3{})

	signed, err := s.SignUpload("b1", "report.txt")

	require.NoError(t, err)
	assert.Contains(t, signed, "report.txt")
	presigner := s.presigner.(*mockPresigner)
	assert.Equal(t, "b1", awssdk.ToString(presigner.input.Bucket))
}

func TestSignDownloadURL_QueryParameters(t *testing.T) {
	s := newTestStorage(&mockS3{})

	signed, err := s.SignDownloadURL("https://b1.s3.us-east-1.amazonaws.com/reports/q1.csv", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/reports/q1.csv", u.Path)
	assert.Equal(t, "AWS4-HMAC-SHA256", q.Get("X-Amz-Algorithm"))
	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.Equal(t, "AKIDEXAMPLE/20240101/us-east-1/s3/aws4_request", q.Get("X-Amz-Credential"))
	assert.Equal(t, "20240101T120000Z", q.Get("X-Amz-Date"))
	assert.Len(t, q.Get("X-Amz-Signature"), 64)
}

func TestSignDownloadURL_RejectsExpiryOutOfRange(t *testing.T) {
	s := newTestStorage(&mockS3{})

	_, err := s.SignDownloadURL("https://b1.s3.amazonaws.com/a", 8*24*time.Hour)
	assert.Error(t, err)
}
