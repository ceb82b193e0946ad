package testcase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gav-2025.net/internal/core/services/testcase"
	"gitlab.com/gav-2025.net/internal/domain"
)

type memTestRepo struct {
	tests []*domain.TestCase
}

func (r *memTestRepo) Save(_ context.Context, tc *domain.TestCase) error {
	r.tests = append(r.tests, tc)
	return nil
}

func (r *memTestRepo) Get(_ context.Context, id uuid.UUID) (*domain.TestCase, error) {
	for _, tc := range r.tests {
		if tc.ID == id {
			return tc, nil
		}
	}
	return nil, domain.ErrTestCaseNotFound
}

func (r *memTestRepo) Update(_ context.Context, id uuid.UUID, input, expectedOutput string) error {
	for _, tc := range r.tests {
		if tc.ID == id {
			tc.Input = input
			tc.ExpectedOutput = expectedOutput
			return nil
		}
	}
	return domain.ErrTestCaseNotFound
}

func (r *memTestRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, tc := range r.tests {
		if tc.ID == id {
			r.tests = append(r.tests[:i], r.tests[i+1:]...)
			return nil
		}
	}
	return domain.ErrTestCaseNotFound
}

func (r *memTestRepo) ListByAssignment(_ context.Context, assignmentID uuid.UUID) ([]*domain.TestCase, error) {
	var out []*domain.TestCase
	for _, tc := range r.tests {
		if tc.AssignmentID == assignmentID {
			out = append(out, tc)
		}
	}
	return out, nil
}

type memCache struct {
	entries map[string]*domain.CachedResult
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*domain.CachedResult{}}
}

func key(submissionID, testCaseID uuid.UUID) string {
	return submissionID.String() + "/" + testCaseID.String()
}

func (c *memCache) Get(_ context.Context, submissionID, testCaseID uuid.UUID) (*domain.CachedResult, error) {
	result, ok := c.entries[key(submissionID, testCaseID)]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return result, nil
}

func (c *memCache) Save(_ context.Context, result *domain.CachedResult) error {
	c.entries[key(result.SubmissionID, result.TestCaseID)] = result
	return nil
}

func (c *memCache) SaveBatch(ctx context.Context, results []*domain.CachedResult) error {
	for _, result := range results {
		if err := c.Save(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

func (c *memCache) DeleteBySubmission(_ context.Context, submissionID uuid.UUID) (int64, error) {
	var n int64
	for k, result := range c.entries {
		if result.SubmissionID == submissionID {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *memCache) DeleteByTestCase(_ context.Context, testCaseID uuid.UUID) (int64, error) {
	var n int64
	for k, result := range c.entries {
		if result.TestCaseID == testCaseID {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func setup() (*testcase.TestCaseService, *memTestRepo, *memCache) {
	repo := &memTestRepo{}
	cache := newMemCache()
	return testcase.NewTestCaseService(repo, cache, nopLogger{}), repo, cache
}

func TestCreateLeavesCacheAlone(t *testing.T) {
	svc, repo, cache := setup()
	assignmentID := uuid.New()

	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(uuid.New(), uuid.New(), "4\n")))

	tc, err := svc.Create(context.Background(), assignmentID, "2\n", "4\n")
	require.NoError(t, err)
	assert.Equal(t, assignmentID, tc.AssignmentID)

	stored, err := repo.Get(context.Background(), tc.ID)
	require.NoError(t, err)
	assert.Equal(t, "2\n", stored.Input)
	assert.Len(t, cache.entries, 1, "adding a test case invalidates nothing")
}

func TestUpdatePurgesResultsAcrossSubmissions(t *testing.T) {
	svc, repo, cache := setup()
	assignmentID := uuid.New()

	target := domain.NewTestCase(assignmentID, "2\n", "4\n")
	other := domain.NewTestCase(assignmentID, "3\n", "6\n")
	require.NoError(t, repo.Save(context.Background(), target))
	require.NoError(t, repo.Save(context.Background(), other))

	// Two submissions graded against the target case, one against the other.
	subA, subB := uuid.New(), uuid.New()
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(subA, target.ID, "4\n")))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(subB, target.ID, "5\n")))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(subA, other.ID, "6\n")))

	require.NoError(t, svc.Update(context.Background(), target.ID, "2\n", "5\n"))

	updated, err := repo.Get(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, "5\n", updated.ExpectedOutput)

	assert.Len(t, cache.entries, 1, "every submission's result for the edited case is gone")
	_, err = cache.Get(context.Background(), subA, other.ID)
	assert.NoError(t, err, "results for untouched cases survive")
}

func TestUpdateUnknownTestCase(t *testing.T) {
	svc, _, _ := setup()
	err := svc.Update(context.Background(), uuid.New(), "x", "y")
	require.ErrorIs(t, err, domain.ErrTestCaseNotFound)
}

func TestDeletePurgesResultsFirst(t *testing.T) {
	svc, repo, cache := setup()
	assignmentID := uuid.New()

	target := domain.NewTestCase(assignmentID, "2\n", "4\n")
	require.NoError(t, repo.Save(context.Background(), target))

	subA, subB := uuid.New(), uuid.New()
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(subA, target.ID, "4\n")))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(subB, target.ID, "4\n")))

	require.NoError(t, svc.Delete(context.Background(), target.ID))

	_, err := repo.Get(context.Background(), target.ID)
	require.ErrorIs(t, err, domain.ErrTestCaseNotFound)
	assert.Empty(t, cache.entries)
}

func TestListByAssignmentFilters(t *testing.T) {
	svc, repo, _ := setup()
	assignmentID := uuid.New()

	first := domain.NewTestCase(assignmentID, "1\n", "2\n")
	second := domain.NewTestCase(assignmentID, "2\n", "4\n")
	foreign := domain.NewTestCase(uuid.New(), "9\n", "18\n")
	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))
	require.NoError(t, repo.Save(context.Background(), foreign))

	listed, err := svc.ListByAssignment(context.Background(), assignmentID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
}
