// Package workspace manages the per-submission build context: a
// scratch directory holding the compiled binary, one input file per
// test case and the runtime descriptor.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

const dockerfileName = "Dockerfile"

// ContextDir returns the working directory path for a submission.
func ContextDir(root string, submissionID uuid.UUID) string {
	return filepath.Join(root, fmt.Sprintf("context-%s", submissionID))
}

// InputFileName returns the deterministic input file name for a test
// case. The sandbox command references the same name inside the image.
func InputFileName(testCaseID uuid.UUID) string {
	return fmt.Sprintf("input-file-%s.txt", testCaseID)
}

// Workspace is one submission's build context on disk.
type Workspace struct {
	Dir string
}

// Create makes a fresh working directory for the submission, including
// intermediate directories. Fails if a directory from an earlier
// evaluation is still present.
func Create(root string, submissionID uuid.UUID) (*Workspace, error) {
	dir := ContextDir(root, submissionID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work root: %w", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// WriteInputs materializes one input file per test case.
func (w *Workspace) WriteInputs(tests []*domain.TestCase) error {
	for _, tc := range tests {
		path := filepath.Join(w.Dir, InputFileName(tc.ID))
		if err := os.WriteFile(path, []byte(tc.Input), 0o644); err != nil {
			return fmt.Errorf("failed to write input file for test case %s: %w", tc.ID, err)
		}
	}
	return nil
}

// CopyDockerfile copies the fixed runtime descriptor into the context.
func (w *Workspace) CopyDockerfile(srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open runtime descriptor: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(w.Dir, dockerfileName))
	if err != nil {
		return fmt.Errorf("failed to create runtime descriptor: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy runtime descriptor: %w", err)
	}
	return nil
}

// Remove deletes the working directory and everything under it.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Dir)
}
