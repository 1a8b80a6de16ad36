package gcp

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"kodoctl/pkg/storage"

	gcpstorage "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func newTestStorage(t *testing.T, endpoint string, creds storage.Credentials) *GCPStorage {
	t.Helper()
	opts := []option.ClientOption{option.WithoutAuthentication()}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	client, err := gcpstorage.NewClient(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return &GCPStorage{
		client:   client,
		creds:    creds,
		pageSize: 2,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testPrivateKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
}

func TestListPage_UsesPageToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("pageToken")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"kind": "storage#objects",
			"items": [
				{"name": "logs/a.log", "size": "12", "md5Hash": "CY9rzUYh03PK3k6DJie09g=="},
				{"name": "logs/b.log", "size": "3", "crc32c": "AAAAAQ=="}
			],
			"nextPageToken": "tok-2"
		}`)
	}))
	defer server.Close()

	g := newTestStorage(t, server.URL+"/storage/v1/", storage.Credentials{})

	page, err := g.ListPage(context.Background(), storage.ListingQuery{Bucket: "b1", Prefix: "logs/"}, "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, []storage.ObjectEntry{
		{Key: "logs/a.log", Hash: "CY9rzUYh03PK3k6DJie09g==", Size: 12},
		{Key: "logs/b.log", Hash: "AAAAAQ==", Size: 3},
	}, page.Items)
	assert.Equal(t, "tok-2", page.Cursor)
	assert.False(t, page.EOF)
}

func TestSignDownloadURL_KeepsHostAndObject(t *testing.T) {
	g := newTestStorage(t, "", storage.Credentials{
		AccessKey: "signer@project.iam.gserviceaccount.com",
		SecretKey: testPrivateKey(t),
	})

	signed, err := g.SignDownloadURL("https://storage.example.com/b1/reports/q1.csv", 30*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "storage.example.com", u.Host)
	assert.Equal(t, "/b1/reports/q1.csv", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Goog-Expires"))
	assert.Contains(t, u.Query().Get("X-Goog-Credential"), "signer@project.iam.gserviceaccount.com/")
	assert.Equal(t, "GOOG4-RSA-SHA256", u.Query().Get("X-Goog-Algorithm"))
	assert.NotEmpty(t, u.Query().Get("X-Goog-Signature"))
}

func TestSignDownloadURL_RejectsURLWithoutObject(t *testing.T) {
	g := newTestStorage(t, "", storage.Credentials{})

	_, err := g.SignDownloadURL("https://storage.example.com/b1", time.Minute)
	assert.ErrorContains(t, err, "<bucket>/<object>")
}

func TestObjectHash_FallsBackToCRC32C(t *testing.T) {
	assert.Equal(t, "AQID", objectHash(&gcpstorage.ObjectAttrs{MD5: []byte{1, 2, 3}, CRC32C: 7}))
	assert.Equal(t, "AAAABw==", objectHash(&gcpstorage.ObjectAttrs{CRC32C: 7}))
	assert.Empty(t, objectHash(nil))
}

func TestTranslateError(t *testing.T) {
	var authErr *storage.AuthError
	require.ErrorAs(t, translateError(&googleapi.Error{Code: http.StatusUnauthorized}), &authErr)
	assert.Equal(t, "gcs", authErr.Provider)

	plain := errors.New("bucket doesn't exist")
	assert.Same(t, plain, translateError(plain))
}
