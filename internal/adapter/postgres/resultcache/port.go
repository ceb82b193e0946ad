// package resultcache contains the PostgreSQL implementation of the
// memoized test output store
package resultcache

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
	querybuilder "gitlab.com/gav-2025.net/internal/utils"
)

// ResultCacheRepository implements the ResultCacheRepository interface
// with PostgreSQL. The (submission_id, testcase_id) pair carries a
// unique constraint; writes are upserts against it.
type ResultCacheRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewResultCacheRepository creates a new PostgreSQL result cache
func NewResultCacheRepository(db *sqlx.DB, logger primary.Logger) *ResultCacheRepository {
	return &ResultCacheRepository{
		db:     db,
		logger: logger,
	}
}

type resultRow struct {
	ID           uuid.UUID `db:"id"`
	SubmissionID uuid.UUID `db:"submission_id"`
	TestCaseID   uuid.UUID `db:"testcase_id"`
	Output       string    `db:"output"`
	CreatedAt    time.Time `db:"created_at"`
}

// Get retrieves the cached output for one (submission, test case) pair
func (r *ResultCacheRepository) Get(ctx context.Context, submissionID, testCaseID uuid.UUID) (*domain.CachedResult, error) {
	query := `
		SELECT id, submission_id, testcase_id, output, created_at
		FROM cached_results
		WHERE submission_id = $1 AND testcase_id = $2
	`

	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, submissionID, testCaseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		r.logger.Error("Failed to get cached result", "error", err)
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	return &domain.CachedResult{
		ID:           row.ID,
		SubmissionID: row.SubmissionID,
		TestCaseID:   row.TestCaseID,
		Output:       row.Output,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// Save upserts one result on the unique pair
func (r *ResultCacheRepository) Save(ctx context.Context, result *domain.CachedResult) error {
	return r.SaveBatch(ctx, []*domain.CachedResult{result})
}

// SaveBatch upserts several results in one statement
func (r *ResultCacheRepository) SaveBatch(ctx context.Context, results []*domain.CachedResult) error {
	if len(results) == 0 {
		return nil
	}

	builder := querybuilder.NewInsertBuilder("cached_results").
		Columns("id", "submission_id", "testcase_id", "output", "created_at").
		OnConflict("submission_id", "testcase_id").
		DoUpdate("output", "created_at")
	for _, result := range results {
		builder.Row(result.ID, result.SubmissionID, result.TestCaseID, result.Output, result.CreatedAt)
	}

	query, args := builder.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save cached results", "error", err)
		return fmt.Errorf("failed to save cached results: %w", err)
	}

	return nil
}

// DeleteBySubmission purges every result of one submission
func (r *ResultCacheRepository) DeleteBySubmission(ctx context.Context, submissionID uuid.UUID) (int64, error) {
	return r.purge(ctx, `DELETE FROM cached_results WHERE submission_id = $1`, submissionID)
}

// DeleteByTestCase purges every result referencing one test case across
// all submissions
func (r *ResultCacheRepository) DeleteByTestCase(ctx context.Context, testCaseID uuid.UUID) (int64, error) {
	return r.purge(ctx, `DELETE FROM cached_results WHERE testcase_id = $1`, testCaseID)
}

func (r *ResultCacheRepository) purge(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to purge cached results", "error", err)
		return 0, fmt.Errorf("failed to purge cached results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged results: %w", err)
	}
	return n, nil
}
