package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// TestCaseRepository defines the persistence contract for test cases
type TestCaseRepository interface {
	// Save persists a new test case
	Save(ctx context.Context, tc *domain.TestCase) error

	// Get retrieves a test case by ID
	Get(ctx context.Context, id uuid.UUID) (*domain.TestCase, error)

	// Update overwrites the input and expected output texts
	Update(ctx context.Context, id uuid.UUID, input, expectedOutput string) error

	// Delete removes the test case record
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAssignment returns an assignment's test cases in creation order
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.TestCase, error)
}
