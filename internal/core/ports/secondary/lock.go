package secondary

import (
	"context"

	"github.com/google/uuid"
)

// GradeLock serializes evaluations of one submission. Two overlapping
// evaluations of the same submission would race on working-directory
// creation and image naming, so every entry point takes the lock first.
type GradeLock interface {
	// Acquire blocks until the per-submission lock is held or ctx is
	// done. The returned release func must be called on every exit path.
	Acquire(ctx context.Context, submissionID uuid.UUID) (release func(), err error)
}
