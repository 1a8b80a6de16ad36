package archive

import (
	"archive/tar"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"kodoctl/pkg/storage"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireProgram(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

func TestExecCompressor_AcceptedCodeTable(t *testing.T) {
	falseBin := requireProgram(t, "false")

	strict := NewExecCompressor(falseBin, []int{0}, discardLogger())
	err := strict.Compress(context.Background(), "in", "out.tar.gz")
	var compErr *storage.CompressionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, 1, compErr.ExitCode)

	lenient := NewExecCompressor(falseBin, []int{0, 1}, discardLogger())
	assert.NoError(t, lenient.Compress(context.Background(), "in", "out.tar.gz"))
}

func TestExecCompressor_ZeroMustBeListedToSucceed(t *testing.T) {
	trueBin := requireProgram(t, "true")

	c := NewExecCompressor(trueBin, []int{1}, discardLogger())
	var compErr *storage.CompressionError
	require.ErrorAs(t, c.Compress(context.Background(), "in", "out.tar.gz"), &compErr)
	assert.Equal(t, 0, compErr.ExitCode)
}

func TestExecCompressor_MissingProgram(t *testing.T) {
	c := NewExecCompressor(filepath.Join(t.TempDir(), "no-such-tar"), nil, discardLogger())

	var compErr *storage.CompressionError
	require.ErrorAs(t, c.Compress(context.Background(), "in", "out.tar.gz"), &compErr)
	assert.Equal(t, -1, compErr.ExitCode)
}

func TestExecCompressor_RealTar(t *testing.T) {
	tarBin := requireProgram(t, "tar")

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("site/assets", 0755))
	require.NoError(t, os.WriteFile("site/index.html", []byte("<html/>"), 0644))
	require.NoError(t, os.WriteFile("site/assets/app.js", []byte("console.log(1)"), 0644))

	c := NewExecCompressor(tarBin, []int{0, 1}, discardLogger())
	require.NoError(t, c.Compress(context.Background(), "site", "site-20240101.tar.gz"))

	names := readTarNames(t, "site-20240101.tar.gz")
	assert.Contains(t, names, "site/index.html")
	assert.Contains(t, names, "site/assets/app.js")
}

func readTarNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	return tarNames(t, f)
}

func tarNames(t *testing.T, r io.Reader) []string {
	t.Helper()
	gr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gr.Close()

	var names []string
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}
