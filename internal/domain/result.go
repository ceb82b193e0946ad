package domain

import (
	"time"

	"github.com/google/uuid"
)

// CachedResult is the memoized sandbox output for one
// (submission, test case) pair. At most one row exists per pair;
// absence means "not yet executed or invalidated".
type CachedResult struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	TestCaseID   uuid.UUID
	Output       string
	CreatedAt    time.Time
}

// NewCachedResult records the captured output of one test execution
func NewCachedResult(submissionID, testCaseID uuid.UUID, output string) *CachedResult {
	return &CachedResult{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		TestCaseID:   testCaseID,
		Output:       output,
		CreatedAt:    time.Now(),
	}
}

// CharMark annotates a single character of captured output for display.
type CharMark struct {
	Char      string `json:"char"`
	Incorrect bool   `json:"incorrect"`
	Newline   bool   `json:"newline"`
}

// TestResult is the graded outcome of one test case. Passed is the
// grading signal; Output is a display aid and never feeds the grade.
type TestResult struct {
	Passed         bool       `json:"passed"`
	Input          string     `json:"input"`
	ExpectedOutput string     `json:"expected_output"`
	Output         []CharMark `json:"output"`

	// MissingOutput is len(expected) - len(actual) in runes, signed;
	// negative means the program printed more than expected.
	MissingOutput int `json:"missing_output"`
}

// TestReport is the full per-submission result set handed back to the
// course system. Compiled == false implies Tests is empty.
type TestReport struct {
	Compiled bool         `json:"compiled"`
	Tests    []TestResult `json:"tests"`
}
