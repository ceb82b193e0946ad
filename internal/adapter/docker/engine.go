// Package docker drives the container engine: building the
// per-submission sandbox image and running one hardened, ephemeral
// container per test case.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/adapter/toolchain"
	"gitlab.com/gav-2025.net/internal/config"
	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/workspace"
)

// Engine implements the SandboxEngine port with the official Docker
// client. One Engine is created at startup and passed through the
// pipeline explicitly.
type Engine struct {
	cli    *client.Client
	cfg    *config.DockerConfig
	logger primary.Logger
}

// NewEngine creates an engine client from the environment
func NewEngine(cfg *config.DockerConfig, logger primary.Logger) (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
	}
	return &Engine{cli: cli, cfg: cfg, logger: logger}, nil
}

// ImageTag returns the image identifier for a submission, namespaced so
// concurrently processed submissions never collide.
func (e *Engine) ImageTag(submissionID uuid.UUID) string {
	return fmt.Sprintf("%s/submission-%s", e.cfg.ImageNamespace, submissionID)
}

// Ping verifies engine connectivity before any artifact is created.
func (e *Engine) Ping(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
	}
	return nil
}

// BuildImage tars the working directory and builds it into tag.
func (e *Engine) BuildImage(ctx context.Context, contextDir, tag string) error {
	buildCtx, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return &domain.BuildError{Image: tag, Err: err}
	}
	defer buildCtx.Close()

	resp, err := e.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:        []string{tag},
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return &domain.BuildError{Image: tag, Err: err}
	}
	defer resp.Body.Close()

	// The build result arrives as a JSON message stream; an errorDetail
	// record anywhere in it means the build failed.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil); err != nil {
		return &domain.BuildError{Image: tag, Err: err}
	}

	e.logger.Debug("built sandbox image", "tag", tag)
	return nil
}

// RemoveImage deletes the submission's image after an evaluation pass.
func (e *Engine) RemoveImage(ctx context.Context, tag string) error {
	_, err := e.cli.ImageRemove(ctx, tag, image.RemoveOptions{Force: true})
	if err != nil {
		return fmt.Errorf("failed to remove image %s: %w", tag, err)
	}
	return nil
}

// RunTest creates, starts, waits on and removes one sandbox instance
// for a single test case. The instance has no network, a read-only
// root filesystem, a pinned CPU, a fixed memory ceiling and privilege
// escalation disabled. On timeout the instance is force stopped and
// whatever output it produced is returned; an incomplete answer simply
// fails comparison later.
func (e *Engine) RunTest(ctx context.Context, tag string, testCaseID uuid.UUID) (string, error) {
	runCmd := fmt.Sprintf("./%s < %s", toolchain.BinaryName, workspace.InputFileName(testCaseID))

	created, err := e.cli.ContainerCreate(ctx,
		&container.Config{
			Image:           tag,
			Cmd:             []string{"bash", "-c", runCmd},
			NetworkDisabled: true,
		},
		&container.HostConfig{
			NetworkMode:    "none",
			ReadonlyRootfs: true,
			SecurityOpt:    []string{"no-new-privileges"},
			Resources: container.Resources{
				Memory:     e.cfg.MemoryLimitBytes,
				CPUShares:  e.cfg.CPUShares,
				CpusetCpus: e.cfg.CpusetCpus,
			},
		}, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create sandbox instance: %w", err)
	}
	// The instance is removed on every path: success, timeout or crash.
	defer func() {
		if err := e.cli.ContainerRemove(context.Background(), created.ID, container.RemoveOptions{Force: true}); err != nil {
			e.logger.Warn("leaked sandbox instance", "container", created.ID, "error", err)
		}
	}()

	if err := e.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start sandbox instance: %w", err)
	}

	statusCh, errCh := e.cli.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return "", fmt.Errorf("failed waiting on sandbox instance: %w", err)
		}
	case <-statusCh:
		// A non-zero exit is the student program's problem, not ours;
		// its output still gets compared.
	case <-time.After(e.cfg.RunTimeout):
		e.logger.Info("sandbox instance timed out, stopping", "container", created.ID, "test_case", testCaseID)
		stopTimeout := 0
		if err := e.cli.ContainerStop(ctx, created.ID, container.StopOptions{Timeout: &stopTimeout}); err != nil {
			return "", fmt.Errorf("failed to stop timed out sandbox instance: %w", err)
		}
	}

	logs, err := e.cli.ContainerLogs(ctx, created.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to read sandbox output: %w", err)
	}
	defer logs.Close()

	// Combined stdout+stderr in stream order.
	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, logs); err != nil {
		return "", fmt.Errorf("failed to demultiplex sandbox output: %w", err)
	}

	return out.String(), nil
}
