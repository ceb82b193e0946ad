package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// ISubmissionService owns the submission aggregate. Every mutation that
// stales cached results issues the invalidation explicitly here rather
// than through persistence hooks.
type ISubmissionService interface {
	// Create persists a new submission and runs the full evaluation
	// synchronously, as submission upload does.
	Create(ctx context.Context, studentID, assignmentID uuid.UUID, sourcePath string) (*domain.Submission, error)

	// Get retrieves a submission by ID
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// Results returns the lazily filled test report
	Results(ctx context.Context, id uuid.UUID) (*domain.TestReport, error)

	// Regrade forces a fresh full evaluation
	Regrade(ctx context.Context, id uuid.UUID) error

	// ReplaceSource swaps the source artifact, purges the submission's
	// cached results and resets compiled to unknown. The previous
	// artifact path is returned so the file store can dispose of it.
	ReplaceSource(ctx context.Context, id uuid.UUID, sourcePath string) (oldPath string, err error)

	// ChangeAssignment moves the submission and invalidates like a
	// source replacement
	ChangeAssignment(ctx context.Context, id uuid.UUID, assignmentID uuid.UUID) error

	// Confirm marks the submission as final for grading
	Confirm(ctx context.Context, id uuid.UUID) error

	// Delete removes the submission and all of its cached results
	Delete(ctx context.Context, id uuid.UUID) error
}
