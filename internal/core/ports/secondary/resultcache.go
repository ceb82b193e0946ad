package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/domain"
)

// ResultCacheRepository stores memoized test outputs, at most one per
// (submission, test case) pair. Deletions return the number of purged
// rows so invalidation can be verified and logged.
type ResultCacheRepository interface {
	// Get retrieves the cached output for one pair; domain.ErrResultNotFound
	// when the pair has not been executed or was invalidated
	Get(ctx context.Context, submissionID, testCaseID uuid.UUID) (*domain.CachedResult, error)

	// Save upserts a result on the unique (submission, test case) pair
	Save(ctx context.Context, result *domain.CachedResult) error

	// SaveBatch upserts several results in one statement
	SaveBatch(ctx context.Context, results []*domain.CachedResult) error

	// DeleteBySubmission purges every result of one submission
	DeleteBySubmission(ctx context.Context, submissionID uuid.UUID) (int64, error)

	// DeleteByTestCase purges every result referencing one test case
	// across all submissions
	DeleteByTestCase(ctx context.Context, testCaseID uuid.UUID) (int64, error)
}
