package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents one student upload of a program source file.
// The surrounding course system owns the record; the grading core reads
// SourcePath and writes Compiled.
type Submission struct {
	ID           uuid.UUID
	StudentID    uuid.UUID
	AssignmentID uuid.UUID

	// SourcePath points at the uploaded source artifact on disk.
	SourcePath string

	// Compiled is nil until the submission has been evaluated at least
	// once against its current source. It is reset to nil whenever the
	// source artifact is replaced.
	Compiled *bool

	Confirmed bool
	CreatedAt time.Time
}

// NewSubmission creates a new ungraded submission
func NewSubmission(studentID, assignmentID uuid.UUID, sourcePath string) *Submission {
	return &Submission{
		ID:           uuid.New(),
		StudentID:    studentID,
		AssignmentID: assignmentID,
		SourcePath:   sourcePath,
		CreatedAt:    time.Now(),
	}
}

// CompileKnownFailed reports whether a previous evaluation established
// that the current source does not compile.
func (s *Submission) CompileKnownFailed() bool {
	return s.Compiled != nil && !*s.Compiled
}
