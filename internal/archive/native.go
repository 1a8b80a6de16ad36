// File: internal/archive/native.go
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kodoctl/pkg/storage"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// NativeCompressor builds the tarball in-process, for hosts without a tar binary.
// Entry names follow tar's convention of the path as given minus any leading "/"
type NativeCompressor struct {
	fs     afero.Fs
	level  int
	logger *slog.Logger
}

func NewNativeCompressor(fs afero.Fs, logger *slog.Logger) *NativeCompressor {
	return &NativeCompressor{
		fs:     fs,
		level:  gzip.DefaultCompression,
		logger: logger.With("component", "NativeCompressor"),
	}
}

func (c *NativeCompressor) Compress(ctx context.Context, inPath, artifact string) error {
	if _, err := c.fs.Stat(inPath); err != nil {
		return &storage.CompressionError{ExitCode: -1, Err: fmt.Errorf("cannot read '%s': %w", inPath, err)}
	}

	out, err := c.fs.Create(artifact)
	if err != nil {
		return &storage.CompressionError{ExitCode: -1, Err: fmt.Errorf("cannot create '%s': %w", artifact, err)}
	}

	if err := c.write(ctx, out, inPath, artifact); err != nil {
		_ = out.Close()
		_ = c.fs.Remove(artifact)
		return &storage.CompressionError{ExitCode: -1, Err: err}
	}

	if err := out.Close(); err != nil {
		_ = c.fs.Remove(artifact)
		return &storage.CompressionError{ExitCode: -1, Err: fmt.Errorf("error closing '%s': %w", artifact, err)}
	}
	return nil
}

func (c *NativeCompressor) write(ctx context.Context, w io.Writer, inPath, artifact string) error {
	gw, err := gzip.NewWriterLevel(w, c.level)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gw)

	artifactAbs, _ := filepath.Abs(artifact)

	walkErr := afero.Walk(c.fs, inPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Archiving a directory that contains the artifact itself would never terminate
		if abs, _ := filepath.Abs(path); abs == artifactAbs {
			return nil
		}

		if !info.Mode().IsRegular() && !info.IsDir() {
			c.logger.Debug("Skipping non-regular file", "path", path, "mode", info.Mode().String())
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("error building header for '%s': %w", path, err)
		}
		header.Name = entryName(path, info.IsDir())

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("error writing header for '%s': %w", path, err)
		}
		if info.IsDir() {
			return nil
		}

		f, err := c.fs.Open(path)
		if err != nil {
			return fmt.Errorf("error opening '%s': %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("error archiving '%s': %w", path, err)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("error finalizing tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("error finalizing gzip stream: %w", err)
	}
	return nil
}

func entryName(path string, isDir bool) string {
	name := strings.TrimLeft(filepath.ToSlash(path), "/")
	if isDir && !strings.HasSuffix(name, "/") {
		name += "/"
	}
	return name
}
