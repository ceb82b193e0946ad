// Package toolchain invokes the native compiler on submitted sources.
package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"gitlab.com/gav-2025.net/internal/config"
	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/domain"
)

// BinaryName is the compiled program name inside the working directory
// and inside the sandbox image.
const BinaryName = "student-program"

// GCCCompiler implements the Compiler port by shelling out to g++ (or
// whatever toolchain the config names) under a wall-clock ceiling.
type GCCCompiler struct {
	cfg    *config.GraderConfig
	logger primary.Logger
}

// NewGCCCompiler creates a native toolchain compiler
func NewGCCCompiler(cfg *config.GraderConfig, logger primary.Logger) *GCCCompiler {
	return &GCCCompiler{
		cfg:    cfg,
		logger: logger,
	}
}

// Compile builds sourcePath into workDir/student-program. Any toolchain
// failure mode (non-zero exit, crash, timeout, missing toolchain) comes
// back as *domain.CompileError; the caller owns workDir cleanup.
func (c *GCCCompiler) Compile(ctx context.Context, sourcePath, workDir string) (string, error) {
	binaryPath := filepath.Join(workDir, BinaryName)

	cctx, cancel := context.WithTimeout(ctx, c.cfg.CompileTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, c.cfg.CompileCommand, "-o", binaryPath, sourcePath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		reason := string(out)
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			reason = "compile timeout exceeded"
		} else if reason == "" {
			reason = err.Error()
		}
		c.logger.Info("compilation failed", "source", sourcePath, "reason", reason)
		return "", &domain.CompileError{Output: reason}
	}

	return binaryPath, nil
}
