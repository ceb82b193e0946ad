package testcase

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// ITestCaseService owns the test case aggregate. Edits and deletions
// explicitly purge every cached result referencing the test case, so
// stale grades can never be served.
type ITestCaseService interface {
	// Create adds a test case to an assignment
	Create(ctx context.Context, assignmentID uuid.UUID, input, expectedOutput string) (*domain.TestCase, error)

	// Get retrieves a test case by ID
	Get(ctx context.Context, id uuid.UUID) (*domain.TestCase, error)

	// Update overwrites the texts and invalidates dependent results
	// across all submissions
	Update(ctx context.Context, id uuid.UUID, input, expectedOutput string) error

	// Delete removes the test case and invalidates dependent results
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAssignment returns an assignment's test cases in creation order
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.TestCase, error)
}
