package secondary

import (
	"context"

	"github.com/google/uuid"
)

// SandboxEngine abstracts the container engine used to build the
// per-submission image and run isolated test executions. The client is
// owned by the process and injected into the pipeline; it is never
// ambient global state.
type SandboxEngine interface {
	// Ping verifies the engine is reachable; domain.ErrEngineUnavailable
	// otherwise
	Ping(ctx context.Context) error

	// ImageTag returns the namespaced image identifier for a submission
	ImageTag(submissionID uuid.UUID) string

	// BuildImage builds the working directory into an image with the
	// given tag; a failure is wrapped in domain.BuildError
	BuildImage(ctx context.Context, contextDir, tag string) error

	// RemoveImage deletes a previously built image
	RemoveImage(ctx context.Context, tag string) error

	// RunTest runs one ephemeral sandbox instance from the image,
	// feeding the named test case's input file to the binary's stdin,
	// and returns combined captured output. A hung program is force
	// stopped at the configured deadline and its partial output
	// returned; engine-level failures return an error.
	RunTest(ctx context.Context, tag string, testCaseID uuid.UUID) (string, error)
}
