package grader

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// IGraderService runs the compile-build-execute-compare pipeline for
// one submission and maintains the result cache.
type IGraderService interface {
	// FullTest is the eager evaluation: purge all cached results,
	// compile, build the image once, execute every test case and
	// persist its output, then tear everything down. Invoked on
	// submission creation and forced re-grades. A student program that
	// fails to compile is recorded (compiled=false) and is not an
	// error; infrastructure failures are.
	FullTest(ctx context.Context, submissionID uuid.UUID) error

	// TestResults is the lazy evaluation: answer from the cache where
	// possible and compile+build at most once to fill the misses. The
	// report has the same shape as after a full evaluation but does
	// strictly less work when results already exist.
	TestResults(ctx context.Context, submissionID uuid.UUID) (*domain.TestReport, error)
}
