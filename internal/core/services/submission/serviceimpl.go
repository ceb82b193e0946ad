package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/ports/secondary"
	"gitlab.com/gav-2025.net/internal/core/services/grader"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/metrics"
)

// SubmissionService implements ISubmissionService
type SubmissionService struct {
	subRepo secondary.SubmissionRepository
	cache   secondary.ResultCacheRepository
	grader  grader.IGraderService
	logger  primary.Logger
}

// NewSubmissionService creates the submission aggregate service
func NewSubmissionService(
	subRepo secondary.SubmissionRepository,
	cache secondary.ResultCacheRepository,
	graderSvc grader.IGraderService,
	logger primary.Logger,
) *SubmissionService {
	return &SubmissionService{
		subRepo: subRepo,
		cache:   cache,
		grader:  graderSvc,
		logger:  logger,
	}
}

// Create persists a new submission and evaluates it immediately.
func (s *SubmissionService) Create(ctx context.Context, studentID, assignmentID uuid.UUID, sourcePath string) (*domain.Submission, error) {
	sub := domain.NewSubmission(studentID, assignmentID, sourcePath)
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("submission created", "submission", sub.ID, "assignment", assignmentID)

	if err := s.grader.FullTest(ctx, sub.ID); err != nil {
		return nil, err
	}

	// Re-read to pick up the compiled flag the evaluation just wrote.
	return s.subRepo.Get(ctx, sub.ID)
}

// Get retrieves a submission by ID
func (s *SubmissionService) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return s.subRepo.Get(ctx, id)
}

// Results returns the lazily filled test report
func (s *SubmissionService) Results(ctx context.Context, id uuid.UUID) (*domain.TestReport, error) {
	return s.grader.TestResults(ctx, id)
}

// Regrade forces a fresh full evaluation
func (s *SubmissionService) Regrade(ctx context.Context, id uuid.UUID) error {
	return s.grader.FullTest(ctx, id)
}

// ReplaceSource swaps the source artifact and invalidates everything
// derived from the old one.
func (s *SubmissionService) ReplaceSource(ctx context.Context, id uuid.UUID, sourcePath string) (string, error) {
	sub, err := s.subRepo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.subRepo.UpdateSourcePath(ctx, id, sourcePath); err != nil {
		return "", err
	}
	if err := s.invalidate(ctx, id, "source_replace"); err != nil {
		return "", err
	}

	return sub.SourcePath, nil
}

// ChangeAssignment moves the submission to another assignment. The old
// cached results reference the old assignment's test cases, so they go
// the same way as on a source replacement.
func (s *SubmissionService) ChangeAssignment(ctx context.Context, id uuid.UUID, assignmentID uuid.UUID) error {
	if err := s.subRepo.UpdateAssignment(ctx, id, assignmentID); err != nil {
		return err
	}
	return s.invalidate(ctx, id, "assignment_change")
}

// Confirm marks the submission as final for grading
func (s *SubmissionService) Confirm(ctx context.Context, id uuid.UUID) error {
	return s.subRepo.UpdateConfirmed(ctx, id, true)
}

// Delete removes the submission and all of its cached results.
func (s *SubmissionService) Delete(ctx context.Context, id uuid.UUID) error {
	purged, err := s.cache.DeleteBySubmission(ctx, id)
	if err != nil {
		return err
	}
	metrics.CacheInvalidationsTotal.WithLabelValues("delete").Add(float64(purged))

	return s.subRepo.Delete(ctx, id)
}

// invalidate purges the submission's cached results and resets the
// compiled flag to unknown; the next read recomputes what is missing.
func (s *SubmissionService) invalidate(ctx context.Context, id uuid.UUID, trigger string) error {
	purged, err := s.cache.DeleteBySubmission(ctx, id)
	if err != nil {
		return err
	}
	metrics.CacheInvalidationsTotal.WithLabelValues(trigger).Add(float64(purged))

	if err := s.subRepo.UpdateCompiled(ctx, id, nil); err != nil {
		return err
	}

	s.logger.Info("submission results invalidated", "submission", id, "purged", purged, "trigger", trigger)
	return nil
}
