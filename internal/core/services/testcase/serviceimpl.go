package testcase

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/ports/secondary"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/metrics"
)

// TestCaseService implements ITestCaseService
type TestCaseService struct {
	testRepo secondary.TestCaseRepository
	cache    secondary.ResultCacheRepository
	logger   primary.Logger
}

// NewTestCaseService creates the test case aggregate service
func NewTestCaseService(
	testRepo secondary.TestCaseRepository,
	cache secondary.ResultCacheRepository,
	logger primary.Logger,
) *TestCaseService {
	return &TestCaseService{
		testRepo: testRepo,
		cache:    cache,
		logger:   logger,
	}
}

// Create adds a test case to an assignment. No invalidation is needed:
// existing cached results reference other test cases and stay valid;
// the new case is simply a miss on the next read.
func (s *TestCaseService) Create(ctx context.Context, assignmentID uuid.UUID, input, expectedOutput string) (*domain.TestCase, error) {
	tc := domain.NewTestCase(assignmentID, input, expectedOutput)
	if err := s.testRepo.Save(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

// Get retrieves a test case by ID
func (s *TestCaseService) Get(ctx context.Context, id uuid.UUID) (*domain.TestCase, error) {
	return s.testRepo.Get(ctx, id)
}

// Update overwrites the texts. Outputs recorded against the old texts
// are purged first so every submission re-runs this test on demand.
func (s *TestCaseService) Update(ctx context.Context, id uuid.UUID, input, expectedOutput string) error {
	purged, err := s.cache.DeleteByTestCase(ctx, id)
	if err != nil {
		return err
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("testcase_edit").Add(float64(purged))

	if err := s.testRepo.Update(ctx, id, input, expectedOutput); err != nil {
		return err
	}

	s.logger.Info("test case updated", "test_case", id, "purged_results", purged)
	return nil
}

// Delete removes the test case and every result referencing it.
func (s *TestCaseService) Delete(ctx context.Context, id uuid.UUID) error {
	purged, err := s.cache.DeleteByTestCase(ctx, id)
	if err != nil {
		return err
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("testcase_delete").Add(float64(purged))

	if err := s.testRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("test case deleted", "test_case", id, "purged_results", purged)
	return nil
}

// ListByAssignment returns an assignment's test cases in creation order
func (s *TestCaseService) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*domain.TestCase, error) {
	return s.testRepo.ListByAssignment(ctx, assignmentID)
}
