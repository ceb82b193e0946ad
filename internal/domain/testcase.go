package domain

import (
	"time"

	"github.com/google/uuid"
)

// TestCase is one instructor-defined input/expected-output pair for an
// assignment. Editing Input or ExpectedOutput must purge every cached
// result that references the test case.
type TestCase struct {
	ID             uuid.UUID
	AssignmentID   uuid.UUID
	Input          string
	ExpectedOutput string
	CreatedAt      time.Time
}

// NewTestCase creates a test case for an assignment
func NewTestCase(assignmentID uuid.UUID, input, expectedOutput string) *TestCase {
	return &TestCase{
		ID:             uuid.New(),
		AssignmentID:   assignmentID,
		Input:          input,
		ExpectedOutput: expectedOutput,
		CreatedAt:      time.Now(),
	}
}
