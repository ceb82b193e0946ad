package submission_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gav-2025.net/internal/core/services/submission"
	"gitlab.com/gav-2025.net/internal/domain"
)

type memSubRepo struct {
	subs map[uuid.UUID]*domain.Submission
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{subs: map[uuid.UUID]*domain.Submission{}}
}

func (r *memSubRepo) Save(_ context.Context, sub *domain.Submission) error {
	copied := *sub
	r.subs[sub.ID] = &copied
	return nil
}

func (r *memSubRepo) Get(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	copied := *sub
	return &copied, nil
}

func (r *memSubRepo) UpdateCompiled(_ context.Context, id uuid.UUID, compiled *bool) error {
	sub, ok := r.subs[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	sub.Compiled = compiled
	return nil
}

func (r *memSubRepo) UpdateSourcePath(_ context.Context, id uuid.UUID, sourcePath string) error {
	sub, ok := r.subs[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	sub.SourcePath = sourcePath
	return nil
}

func (r *memSubRepo) UpdateAssignment(_ context.Context, id uuid.UUID, assignmentID uuid.UUID) error {
	sub, ok := r.subs[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	sub.AssignmentID = assignmentID
	return nil
}

func (r *memSubRepo) UpdateConfirmed(_ context.Context, id uuid.UUID, confirmed bool) error {
	sub, ok := r.subs[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	sub.Confirmed = confirmed
	return nil
}

func (r *memSubRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.subs[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	delete(r.subs, id)
	return nil
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

// stubGrader lets the service tests avoid the whole docker pipeline.
type stubGrader struct {
	repo      *memSubRepo
	fullRuns  []uuid.UUID
	report    *domain.TestReport
	reportErr error
}

func (g *stubGrader) FullTest(ctx context.Context, submissionID uuid.UUID) error {
	g.fullRuns = append(g.fullRuns, submissionID)
	compiled := true
	return g.repo.UpdateCompiled(ctx, submissionID, &compiled)
}

func (g *stubGrader) TestResults(_ context.Context, _ uuid.UUID) (*domain.TestReport, error) {
	return g.report, g.reportErr
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func setup() (*submission.SubmissionService, *memSubRepo, *memCache, *stubGrader) {
	repo := newMemSubRepo()
	cache := newMemCache()
	stub := &stubGrader{repo: repo}
	svc := submission.NewSubmissionService(repo, cache, stub, nopLogger{})
	return svc, repo, cache, stub
}

func seed(t *testing.T, repo *memSubRepo) *domain.Submission {
	t.Helper()
	sub := domain.NewSubmission(uuid.New(), uuid.New(), "/uploads/main.cpp")
	require.NoError(t, repo.Save(context.Background(), sub))
	return sub
}

func TestCreateEvaluatesImmediately(t *testing.T) {
	svc, _, _, stub := setup()

	sub, err := svc.Create(context.Background(), uuid.New(), uuid.New(), "/uploads/main.cpp")
	require.NoError(t, err)

	require.Len(t, stub.fullRuns, 1)
	assert.Equal(t, sub.ID, stub.fullRuns[0])

	// The returned aggregate reflects the evaluation that just ran.
	require.NotNil(t, sub.Compiled)
	assert.True(t, *sub.Compiled)
}

func TestReplaceSourceReturnsOldPathAndInvalidates(t *testing.T) {
	svc, repo, cache, _ := setup()
	sub := seed(t, repo)
	other := seed(t, repo)

	compiled := true
	require.NoError(t, repo.UpdateCompiled(context.Background(), sub.ID, &compiled))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(sub.ID, uuid.New(), "4\n")))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(sub.ID, uuid.New(), "8\n")))
	keptKey := uuid.New()
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(other.ID, keptKey, "12\n")))

	oldPath, err := svc.ReplaceSource(context.Background(), sub.ID, "/uploads/main_v2.cpp")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/main.cpp", oldPath)

	updated, err := repo.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/main_v2.cpp", updated.SourcePath)
	assert.Nil(t, updated.Compiled, "compiled flag back to unknown after a source swap")

	// Exactly this submission's results are gone.
	assert.Len(t, cache.entries, 1)
	_, err = cache.Get(context.Background(), other.ID, keptKey)
	assert.NoError(t, err, "other submissions keep their results")
}

func TestReplaceSourceUnknownSubmission(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.ReplaceSource(context.Background(), uuid.New(), "/uploads/x.cpp")
	require.ErrorIs(t, err, domain.ErrSubmissionNotFound)
}

func TestChangeAssignmentInvalidates(t *testing.T) {
	svc, repo, cache, _ := setup()
	sub := seed(t, repo)

	compiled := true
	require.NoError(t, repo.UpdateCompiled(context.Background(), sub.ID, &compiled))
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(sub.ID, uuid.New(), "4\n")))

	newAssignment := uuid.New()
	require.NoError(t, svc.ChangeAssignment(context.Background(), sub.ID, newAssignment))

	updated, err := repo.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, newAssignment, updated.AssignmentID)
	assert.Nil(t, updated.Compiled)
	assert.Empty(t, cache.entries)
}

func TestConfirm(t *testing.T) {
	svc, repo, _, _ := setup()
	sub := seed(t, repo)

	require.NoError(t, svc.Confirm(context.Background(), sub.ID))

	updated, err := repo.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.True(t, updated.Confirmed)
}

func TestDeletePurgesResultsFirst(t *testing.T) {
	svc, repo, cache, _ := setup()
	sub := seed(t, repo)
	other := seed(t, repo)

	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(sub.ID, uuid.New(), "4\n")))
	otherTC := uuid.New()
	require.NoError(t, cache.Save(context.Background(), domain.NewCachedResult(other.ID, otherTC, "8\n")))

	require.NoError(t, svc.Delete(context.Background(), sub.ID))

	_, err := repo.Get(context.Background(), sub.ID)
	require.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	assert.Len(t, cache.entries, 1)
	_, err = cache.Get(context.Background(), other.ID, otherTC)
	assert.NoError(t, err)
}

func TestRegradeDelegates(t *testing.T) {
	svc, repo, _, stub := setup()
	sub := seed(t, repo)

	require.NoError(t, svc.Regrade(context.Background(), sub.ID))
	require.Len(t, stub.fullRuns, 1)
	assert.Equal(t, sub.ID, stub.fullRuns[0])
}
