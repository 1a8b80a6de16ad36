// File: internal/archive/compressor.go
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strings"

	"kodoctl/pkg/storage"
)

// Compressor produces a gzip-compressed tarball of inPath at artifact
type Compressor interface {
	Compress(ctx context.Context, inPath, artifact string) error
}

// ExecCompressor shells out to an external tar. Exit statuses are mapped
// through AcceptedExitCodes rather than assuming only zero means success
type ExecCompressor struct {
	Program           string
	AcceptedExitCodes []int
	logger            *slog.Logger
}

func NewExecCompressor(program string, acceptedExitCodes []int, logger *slog.Logger) *ExecCompressor {
	if program == "" {
		program = "tar"
	}
	if len(acceptedExitCodes) == 0 {
		acceptedExitCodes = []int{0}
	}
	return &ExecCompressor{
		Program:           program,
		AcceptedExitCodes: acceptedExitCodes,
		logger:            logger.With("component", "ExecCompressor"),
	}
}

func (c *ExecCompressor) Compress(ctx context.Context, inPath, artifact string) error {
	cmd := exec.CommandContext(ctx, c.Program, "-zcf", artifact, inPath)
	c.logger.Debug("Running compressor", "command", cmd.String())

	output, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &storage.CompressionError{ExitCode: -1, Err: fmt.Errorf("error starting %s: %w", c.Program, err)}
		}
		exitCode = exitErr.ExitCode()
	}

	if !slices.Contains(c.AcceptedExitCodes, exitCode) {
		return &storage.CompressionError{
			ExitCode: exitCode,
			Output:   strings.TrimSpace(string(output)),
			Err:      fmt.Errorf("%s exited with an unaccepted status", c.Program),
		}
	}

	if exitCode != 0 {
		c.logger.Warn("Compressor reported a warning status", "exit_code", exitCode, "output", strings.TrimSpace(string(output)))
	}
	return nil
}
