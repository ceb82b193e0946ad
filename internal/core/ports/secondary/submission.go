package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// SubmissionRepository defines the persistence contract for submissions
type SubmissionRepository interface {
	// Save persists a new submission
	Save(ctx context.Context, sub *domain.Submission) error

	// Get retrieves a submission by ID
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// UpdateCompiled writes the compiled flag; nil resets it to unknown
	UpdateCompiled(ctx context.Context, id uuid.UUID, compiled *bool) error

	// UpdateSourcePath replaces the source artifact path
	UpdateSourcePath(ctx context.Context, id uuid.UUID, sourcePath string) error

	// UpdateAssignment moves the submission to another assignment
	UpdateAssignment(ctx context.Context, id uuid.UUID, assignmentID uuid.UUID) error

	// UpdateConfirmed sets the student confirmation flag
	UpdateConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error

	// Delete removes the submission record
	Delete(ctx context.Context, id uuid.UUID) error
}
