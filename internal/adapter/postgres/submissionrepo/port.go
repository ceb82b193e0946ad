// package submissionrepo contains the PostgreSQL implementation of the
// submission repository
package submissionrepo

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

// SubmissionRepository implements the SubmissionRepository interface
// with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

type submissionRow struct {
	ID           uuid.UUID    `db:"id"`
	StudentID    uuid.UUID    `db:"student_id"`
	AssignmentID uuid.UUID    `db:"assignment_id"`
	SourcePath   string       `db:"source_path"`
	Compiled     sql.NullBool `db:"compiled"`
	Confirmed    bool         `db:"confirmed"`
	CreatedAt    time.Time    `db:"created_at"`
}

func (r submissionRow) toDomain() *domain.Submission {
	sub := &domain.Submission{
		ID:           r.ID,
		StudentID:    r.StudentID,
		AssignmentID: r.AssignmentID,
		SourcePath:   r.SourcePath,
		Confirmed:    r.Confirmed,
		CreatedAt:    r.CreatedAt,
	}
	if r.Compiled.Valid {
		compiled := r.Compiled.Bool
		sub.Compiled = &compiled
	}
	return sub
}

// Save persists a new submission; compiled starts out NULL (unknown)
func (r *SubmissionRepository) Save(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, student_id, assignment_id, source_path, compiled, confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var compiled sql.NullBool
	if sub.Compiled != nil {
		compiled = sql.NullBool{Bool: *sub.Compiled, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.StudentID, sub.AssignmentID, sub.SourcePath, compiled, sub.Confirmed, sub.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save submission", "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// Get retrieves a submission by ID
func (r *SubmissionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, student_id, assignment_id, source_path, compiled, confirmed, created_at
		FROM submissions
		WHERE id = $1
	`

	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		r.logger.Error("Failed to get submission", "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return row.toDomain(), nil
}

// UpdateCompiled writes the compiled flag; nil resets it to unknown
func (r *SubmissionRepository) UpdateCompiled(ctx context.Context, id uuid.UUID, compiled *bool) error {
	var value sql.NullBool
	if compiled != nil {
		value = sql.NullBool{Bool: *compiled, Valid: true}
	}

	return r.update(ctx, id, `UPDATE submissions SET compiled = $2 WHERE id = $1`, value)
}

// UpdateSourcePath replaces the source artifact path
func (r *SubmissionRepository) UpdateSourcePath(ctx context.Context, id uuid.UUID, sourcePath string) error {
	return r.update(ctx, id, `UPDATE submissions SET source_path = $2 WHERE id = $1`, sourcePath)
}

// UpdateAssignment moves the submission to another assignment
func (r *SubmissionRepository) UpdateAssignment(ctx context.Context, id uuid.UUID, assignmentID uuid.UUID) error {
	return r.update(ctx, id, `UPDATE submissions SET assignment_id = $2 WHERE id = $1`, assignmentID)
}

// UpdateConfirmed sets the student confirmation flag
func (r *SubmissionRepository) UpdateConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error {
	return r.update(ctx, id, `UPDATE submissions SET confirmed = $2 WHERE id = $1`, confirmed)
}

// Delete removes the submission record. Cached results are purged
// explicitly by the submission service before this is called.
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete submission", "error", err)
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *SubmissionRepository) update(ctx context.Context, id uuid.UUID, query string, arg interface{}) error {
	res, err := r.db.ExecContext(ctx, query, id, arg)
	if err != nil {
		r.logger.Error("Failed to update submission", "error", err)
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}
