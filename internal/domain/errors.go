package domain

import (
	"errors"
	"fmt"
)

// Grading failures of the student program (compilation, runtime
// behavior) are absorbed into the report. Infrastructure failures
// (image build, engine connectivity) are system errors and propagate.

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrTestCaseNotFound   = errors.New("test case not found")
	ErrResultNotFound     = errors.New("cached result not found")

	// ErrEngineUnavailable means the container engine cannot be
	// reached at all. Surfaced before any working directory is created.
	ErrEngineUnavailable = errors.New("sandbox engine unavailable")

	// ErrSubmissionLocked means another evaluation of the same
	// submission is already in flight.
	ErrSubmissionLocked = errors.New("submission evaluation already in progress")
)

// CompileError reports that the student source failed to compile:
// non-zero toolchain exit, toolchain crash, or compile timeout.
// It is never surfaced to callers as a system error.
type CompileError struct {
	Output string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation failed: %s", e.Output)
}

// BuildError reports that the sandbox image could not be built after a
// successful compile. This is fatal for the evaluation pass and must
// not be mistaken for "does not compile".
type BuildError struct {
	Image string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("image build failed for %s: %v", e.Image, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
