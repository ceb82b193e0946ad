// package testcaserepo contains the PostgreSQL implementation of the
// test case repository
package testcaserepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/domain"
)

// TestCaseRepository implements the TestCaseRepository interface with
// PostgreSQL
type TestCaseRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewTestCaseRepository creates a new PostgreSQL test case repository
func NewTestCaseRepository(db *sqlx.DB, logger primary.Logger) *TestCaseRepository {
	return &TestCaseRepository{
		db:     db,
		logger: logger,
	}
}

type testCaseRow struct {
	ID             uuid.UUID `db:"id"`
	AssignmentID   uuid.UUID `db:"assignment_id"`
	Input          string    `db:"input"`
	ExpectedOutput string    `db:"expected_output"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r testCaseRow) toDomain() *domain.TestCase {
	return &domain.TestCase{
		ID:             r.ID,
		AssignmentID:   r.AssignmentID,
		Input:          r.Input,
		ExpectedOutput: r.ExpectedOutput,
		CreatedAt:      r.CreatedAt,
	}
}

// Save persists a new test case
func (r *TestCaseRepository) Save(ctx context.Context, tc *domain.TestCase) error {
	query := `
		INSERT INTO test_cases (id, assignment_id, input, expected_output, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, tc.ID, tc.AssignmentID, tc.Input, tc.ExpectedOutput, tc.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save test case", "error", err)
		return fmt.Errorf("failed to save test case: %w", err)
	}

	return nil
}

// Get retrieves a test case by ID
func (r *TestCaseRepository) Get(ctx context.Context, id uuid.UUID) (*domain.TestCase, error) {
	query := `
		SELECT id, assignment_id, input, expected_output, created_at
		FROM test_cases
		WHERE id = $1
	`

	var row testCaseRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTestCaseNotFound
		}
		r.logger.Error("Failed to get test case", "error", err)
		return nil, fmt.Errorf("failed to get test case: %w", err)
	}

	return row.toDomain(), nil
}

// Update overwrites the input and expected output texts. The test case
// service purges dependent cached results before calling this.
func (r *TestCaseRepository) Update(ctx context.Context, id uuid.UUID, input, expectedOutput string) error {
	query := `UPDATE test_cases SET input = $2, expected_output = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, input, expectedOutput)
	if err != nil {
		r.logger.Error("Failed to update test case", "error", err)
		return fmt.Errorf("failed to update test case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTestCaseNotFound
	}
	return nil
}

// Delete removes the test case record
func (r *TestCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete test case", "error", err)
		return fmt.Errorf("failed to delete test case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTestCaseNotFound
	}
	return nil
}

// ListByAssignment returns an assignment's test cases in creation order
func (r *TestCaseRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.TestCase, error) {
	query := `
		SELECT id, assignment_id, input, expected_output, created_at
		FROM test_cases
		WHERE assignment_id = $1
		ORDER BY created_at, id
	`

	var rows []testCaseRow
	if err := r.db.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		r.logger.Error("Failed to list test cases", "error", err)
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}

	tests := make([]*domain.TestCase, 0, len(rows))
	for _, row := range rows {
		tests = append(tests, row.toDomain())
	}
	return tests, nil
}
