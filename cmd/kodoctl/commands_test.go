package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kodoctl/internal/config"
	"kodoctl/internal/provider/factory"
	"kodoctl/internal/provider/registry"
	"kodoctl/internal/service"
	"kodoctl/pkg/common"
	"kodoctl/pkg/formatter"
	"kodoctl/pkg/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProvider = "fake-cmd-test"

type stubBackend struct {
	pages   []storage.ListingPage
	pageErr error
	uploads []string
}

var backend *stubBackend

func init() {
	registry.RegisterProvider(testProvider, registry.ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return true },
		Initializer: func(ctx context.Context, cfg *config.Config, creds storage.Credentials, logger *slog.Logger) (storage.Storage, error) {
			return backend, nil
		},
	})
}

func (b *stubBackend) ListPage(ctx context.Context, query storage.ListingQuery, cursor string) (storage.ListingPage, error) {
	if len(b.pages) == 0 {
		return storage.ListingPage{}, b.pageErr
	}
	page := b.pages[0]
	b.pages = b.pages[1:]
	return page, nil
}

func (b *stubBackend) Upload(ctx context.Context, bucket, key, localPath string) (storage.UploadResult, error) {
	b.uploads = append(b.uploads, bucket+"/"+key)
	return storage.UploadResult{Bucket: bucket, Key: key, Hash: "Fh"}, nil
}

func (b *stubBackend) SignUpload(bucket, key string) (string, error) {
	return "token:" + bucket + ":" + key, nil
}

func (b *stubBackend) SignDownloadURL(rawURL string, expiry time.Duration) (string, error) {
	return rawURL, nil
}

func (b *stubBackend) ProviderName() common.Provider { return common.Kodo }
func (b *stubBackend) Close() error                  { return nil }

type scriptedPrompter struct {
	answer bool
	asked  []string
}

func (p *scriptedPrompter) Confirm(message string) (bool, error) {
	p.asked = append(p.asked, message)
	return p.answer, nil
}

func newTestApp(t *testing.T, fs afero.Fs, client *http.Client) *appContainer {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("KODOCTL_PROVIDER", testProvider)

	cfgManager, err := config.NewConfigManager()
	require.NoError(t, err)
	cfg, err := cfgManager.LoadConfig()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providerFactory := factory.NewFactory(cfg, logger)
	return &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		ProviderFactory: providerFactory,
		ObjectService:   service.NewObjectService(providerFactory, fs, client, cfg.Download.Expiry, logger),
		ObjectFormatter: formatter.NewObjectFormatter(),
		Prompter:        &scriptedPrompter{},
		Fs:              fs,
		Logger:          logger,
	}
}

func run(app *appContainer, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(app)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLs_PrintsEveryPage(t *testing.T) {
	backend = &stubBackend{pages: []storage.ListingPage{
		{Items: []storage.ObjectEntry{{Key: "a", Hash: "h1", Size: 1}}, Cursor: "c1"},
		{Items: []storage.ObjectEntry{{Key: "b", Hash: "h2", Size: 2}}, EOF: true},
	}}
	app := newTestApp(t, afero.NewMemMapFs(), nil)

	out, _, err := run(app, "ls", "-b", "b1")

	require.NoError(t, err)
	assert.Equal(t, "a\th1\t1\nb\th2\t2\n", out)
}

func TestLs_PartialOutputThenError(t *testing.T) {
	backend = &stubBackend{
		pages:   []storage.ListingPage{{Items: []storage.ObjectEntry{{Key: "a", Hash: "h1", Size: 1}}, Cursor: "c1"}},
		pageErr: errors.New("connection reset"),
	}
	app := newTestApp(t, afero.NewMemMapFs(), nil)

	out, stderr, err := run(app, "ls", "-b", "b1")

	assert.Equal(t, "a\th1\t1\n", out)
	assert.Contains(t, stderr, "after 1 entries")
	var listingErr *storage.ListingError
	require.ErrorAs(t, err, &listingErr)
	assert.Equal(t, 2, listingErr.Page)
}

func TestLs_RequiresBucket(t *testing.T) {
	backend = &stubBackend{}
	_, _, err := run(newTestApp(t, afero.NewMemMapFs(), nil), "ls")
	assert.ErrorContains(t, err, "bucket")
}

func TestUpload_UnsupportedProviderFlag(t *testing.T) {
	backend = &stubBackend{}
	_, _, err := run(newTestApp(t, afero.NewMemMapFs(), nil), "upload", "-i", "/x", "-b", "b", "--provider", "ftp")
	assert.ErrorContains(t, err, "unsupported provider: ftp")
}

func TestUpload_DefaultKey(t *testing.T) {
	backend = &stubBackend{}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/report.csv", []byte("1,2"), 0644))

	out, _, err := run(newTestApp(t, fs, nil), "upload", "-i", "/data/report.csv", "-b", "logs")

	require.NoError(t, err)
	assert.Equal(t, []string{"logs/report.csv"}, backend.uploads)
	assert.Contains(t, out, "report.csv")
}

func TestGet_DeclinedOverwriteKeepsFile(t *testing.T) {
	backend = &stubBackend{}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out.txt", []byte("old"), 0644))
	app := newTestApp(t, fs, nil)
	prompter := &scriptedPrompter{answer: false}
	app.Prompter = prompter

	out, _, err := run(app, "get", "-u", "http://unused.invalid", "-k", "a.txt", "-o", "/out.txt")

	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")
	require.Len(t, prompter.asked, 1)
	data, _ := afero.ReadFile(fs, "/out.txt")
	assert.Equal(t, "old", string(data))
}

func TestGet_ForceOverwrites(t *testing.T) {
	backend = &stubBackend{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "new contents")
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out.txt", []byte("old"), 0644))
	app := newTestApp(t, fs, server.Client())
	prompter := &scriptedPrompter{}
	app.Prompter = prompter

	_, _, err := run(app, "get", "-u", server.URL, "-k", "a.txt", "-o", "/out.txt", "-f")

	require.NoError(t, err)
	assert.Empty(t, prompter.asked)
	data, _ := afero.ReadFile(fs, "/out.txt")
	assert.Equal(t, "new contents", string(data))
}

func TestArchive_NativeCompressorUploadsAndCleansUp(t *testing.T) {
	backend = &stubBackend{}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/site/index.html", []byte("<html></html>"), 0644))

	_, _, err := run(newTestApp(t, fs, nil), "archive", "-i", "/srv/site", "-o", "site", "-b", "backups", "-p", "nightly", "-d", "/", "--compressor", "native")

	require.NoError(t, err)
	require.Len(t, backend.uploads, 1)
	assert.True(t, strings.HasPrefix(backend.uploads[0], "backups/nightly/site-"))
	assert.True(t, strings.HasSuffix(backend.uploads[0], ".tar.gz"))

	exists, err := afero.Exists(fs, strings.TrimPrefix(backend.uploads[0], "backups/nightly/"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSignUpload_PrintsToken(t *testing.T) {
	backend = &stubBackend{}
	out, _, err := run(newTestApp(t, afero.NewMemMapFs(), nil), "sign", "upload", "-b", "logs", "-k", "a.txt")

	require.NoError(t, err)
	assert.Equal(t, "token:logs:a.txt\n", out)
}

func TestConfigSetAndGet(t *testing.T) {
	backend = &stubBackend{}
	app := newTestApp(t, afero.NewMemMapFs(), nil)

	_, _, err := run(app, "config", "set", "kodo.region", "z2")
	require.NoError(t, err)

	out, _, err := run(app, "config", "get", "kodo.region")
	require.NoError(t, err)
	assert.Equal(t, "kodo.region = z2\n", out)
}

func TestFlattenConfigMap(t *testing.T) {
	flat := flattenConfigMap(map[string]interface{}{
		"provider": "kodo",
		"archive":  map[string]interface{}{"compressor": "tar"},
	})
	assert.Equal(t, map[string]interface{}{"provider": "kodo", "archive.compressor": "tar"}, flat)
}
