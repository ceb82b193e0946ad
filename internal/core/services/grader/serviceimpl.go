package grader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/config"
	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/ports/secondary"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/metrics"
	"gitlab.com/gav-2025.net/internal/workspace"
)

// GraderService orchestrates compile, image build, sandbox execution
// and result caching. Evaluation is sequential within one submission;
// cross-submission isolation comes from per-submission working
// directories and image tags, and same-submission overlap is excluded
// by the grade lock.
type GraderService struct {
	cfg      *config.GraderConfig
	subRepo  secondary.SubmissionRepository
	testRepo secondary.TestCaseRepository
	cache    secondary.ResultCacheRepository
	compiler secondary.Compiler
	engine   secondary.SandboxEngine
	lock     secondary.GradeLock
	logger   primary.Logger
}

// NewGraderService creates the grading pipeline service
func NewGraderService(
	cfg *config.GraderConfig,
	subRepo secondary.SubmissionRepository,
	testRepo secondary.TestCaseRepository,
	cache secondary.ResultCacheRepository,
	compiler secondary.Compiler,
	engine secondary.SandboxEngine,
	lock secondary.GradeLock,
	logger primary.Logger,
) *GraderService {
	return &GraderService{
		cfg:      cfg,
		subRepo:  subRepo,
		testRepo: testRepo,
		cache:    cache,
		compiler: compiler,
		engine:   engine,
		lock:     lock,
		logger:   logger,
	}
}

// session holds the artifacts of one evaluation pass: the working
// directory and the built image. Both must be torn down on every exit
// path that created them.
type session struct {
	ws    *workspace.Workspace
	image string
}

// prep compiles the submission and builds its sandbox image. On
// *domain.CompileError the working directory is already removed; on
// any later failure the directory is removed before returning. Engine
// reachability is checked before anything touches the filesystem.
func (s *GraderService) prep(ctx context.Context, sub *domain.Submission, tests []*domain.TestCase) (*session, error) {
	if err := s.engine.Ping(ctx); err != nil {
		return nil, err
	}

	ws, err := workspace.Create(s.cfg.WorkRoot, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare working directory: %w", err)
	}

	if _, err := s.compiler.Compile(ctx, sub.SourcePath, ws.Dir); err != nil {
		s.removeWorkspace(ws)
		var compileErr *domain.CompileError
		if errors.As(err, &compileErr) {
			metrics.CompilationsTotal.WithLabelValues("failure").Inc()
		}
		return nil, err
	}
	metrics.CompilationsTotal.WithLabelValues("success").Inc()

	if err := ws.WriteInputs(tests); err != nil {
		s.removeWorkspace(ws)
		return nil, err
	}
	if err := ws.CopyDockerfile(s.cfg.DockerfilePath); err != nil {
		s.removeWorkspace(ws)
		return nil, err
	}

	tag := s.engine.ImageTag(sub.ID)
	buildStart := time.Now()
	if err := s.engine.BuildImage(ctx, ws.Dir, tag); err != nil {
		s.removeWorkspace(ws)
		return nil, err
	}
	metrics.ImageBuildDuration.Observe(float64(time.Since(buildStart).Milliseconds()))

	return &session{ws: ws, image: tag}, nil
}

// teardown removes the image and working directory. Failures here are
// leaks, not evaluation errors; they are logged loudly and swallowed.
func (s *GraderService) teardown(sess *session) {
	if err := s.engine.RemoveImage(context.Background(), sess.image); err != nil {
		s.logger.Warn("leaked sandbox image", "image", sess.image, "error", err)
	}
	s.removeWorkspace(sess.ws)
}

func (s *GraderService) removeWorkspace(ws *workspace.Workspace) {
	if err := ws.Remove(); err != nil {
		s.logger.Warn("leaked working directory", "dir", ws.Dir, "error", err)
	}
}

// runOne executes a single test case and persists its captured output.
func (s *GraderService) runOne(ctx context.Context, sess *session, sub *domain.Submission, tc *domain.TestCase) (string, error) {
	start := time.Now()
	output, err := s.engine.RunTest(ctx, sess.image, tc.ID)
	if err != nil {
		return "", err
	}
	metrics.ExecutionsTotal.Inc()
	metrics.ExecutionDuration.Observe(float64(time.Since(start).Milliseconds()))

	s.logger.Debug("test executed", "submission", sub.ID, "test_case", tc.ID, "output_len", len(output))

	if err := s.cache.Save(ctx, domain.NewCachedResult(sub.ID, tc.ID, output)); err != nil {
		return "", err
	}
	return output, nil
}

// FullTest implements the eager evaluation pass.
func (s *GraderService) FullTest(ctx context.Context, submissionID uuid.UUID) error {
	release, err := s.lock.Acquire(ctx, submissionID)
	if err != nil {
		return err
	}
	defer release()

	sub, err := s.subRepo.Get(ctx, submissionID)
	if err != nil {
		return err
	}
	tests, err := s.testRepo.ListByAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return err
	}

	// Stale results must not survive a re-grade.
	purged, err := s.cache.DeleteBySubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if purged > 0 {
		metrics.CacheInvalidationsTotal.WithLabelValues("regrade").Add(float64(purged))
	}

	sess, err := s.prep(ctx, sub, tests)
	if err != nil {
		var compileErr *domain.CompileError
		if errors.As(err, &compileErr) {
			// Absorbed: "does not compile" is a grading outcome.
			metrics.EvaluationsTotal.WithLabelValues("full", "compile_failed").Inc()
			compiled := false
			return s.subRepo.UpdateCompiled(ctx, submissionID, &compiled)
		}
		metrics.EvaluationsTotal.WithLabelValues("full", "error").Inc()
		return err
	}
	defer s.teardown(sess)

	for _, tc := range tests {
		if _, err := s.runOne(ctx, sess, sub, tc); err != nil {
			metrics.EvaluationsTotal.WithLabelValues("full", "error").Inc()
			return err
		}
	}

	compiled := true
	if err := s.subRepo.UpdateCompiled(ctx, submissionID, &compiled); err != nil {
		return err
	}

	metrics.EvaluationsTotal.WithLabelValues("full", "ok").Inc()
	s.logger.Info("full evaluation finished", "submission", submissionID, "tests", len(tests))
	return nil
}

// TestResults implements the lazy evaluation pass.
func (s *GraderService) TestResults(ctx context.Context, submissionID uuid.UUID) (*domain.TestReport, error) {
	release, err := s.lock.Acquire(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	defer release()

	sub, err := s.subRepo.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	// Known compile failure: no test is ever attempted.
	if sub.CompileKnownFailed() {
		metrics.EvaluationsTotal.WithLabelValues("lazy", "compile_failed").Inc()
		return &domain.TestReport{Compiled: false, Tests: []domain.TestResult{}}, nil
	}

	tests, err := s.testRepo.ListByAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	report := &domain.TestReport{Compiled: true, Tests: make([]domain.TestResult, 0, len(tests))}

	// The image is built on the first cache miss and reused for every
	// remaining miss in this pass.
	var sess *session
	defer func() {
		if sess != nil {
			s.teardown(sess)
		}
	}()

	for _, tc := range tests {
		var output string

		cached, err := s.cache.Get(ctx, submissionID, tc.ID)
		switch {
		case err == nil:
			metrics.CacheHitsTotal.Inc()
			output = cached.Output

		case errors.Is(err, domain.ErrResultNotFound):
			metrics.CacheMissesTotal.Inc()
			if sess == nil {
				sess, err = s.prep(ctx, sub, tests)
				if err != nil {
					var compileErr *domain.CompileError
					if errors.As(err, &compileErr) {
						metrics.EvaluationsTotal.WithLabelValues("lazy", "compile_failed").Inc()
						compiled := false
						if err := s.subRepo.UpdateCompiled(ctx, submissionID, &compiled); err != nil {
							return nil, err
						}
						return &domain.TestReport{Compiled: false, Tests: []domain.TestResult{}}, nil
					}
					metrics.EvaluationsTotal.WithLabelValues("lazy", "error").Inc()
					return nil, err
				}
			}
			output, err = s.runOne(ctx, sess, sub, tc)
			if err != nil {
				metrics.EvaluationsTotal.WithLabelValues("lazy", "error").Inc()
				return nil, err
			}

		default:
			return nil, err
		}

		result := Compare(output, tc.ExpectedOutput)
		result.Input = tc.Input
		report.Tests = append(report.Tests, result)
	}

	// A lazy pass that had to compile has established the flag.
	if sess != nil && sub.Compiled == nil {
		compiled := true
		if err := s.subRepo.UpdateCompiled(ctx, submissionID, &compiled); err != nil {
			return nil, err
		}
	}

	metrics.EvaluationsTotal.WithLabelValues("lazy", "ok").Inc()
	return report, nil
}
