package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/workspace"
)

func TestNaming(t *testing.T) {
	submissionID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	testCaseID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.Equal(t,
		filepath.Join("/work", "context-11111111-2222-3333-4444-555555555555"),
		workspace.ContextDir("/work", submissionID))
	assert.Equal(t,
		"input-file-aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee.txt",
		workspace.InputFileName(testCaseID))
}

func TestCreateMakesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "work")
	submissionID := uuid.New()

	ws, err := workspace.Create(root, submissionID)
	require.NoError(t, err)

	info, err := os.Stat(ws.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, workspace.ContextDir(root, submissionID), ws.Dir)
}

func TestCreateRefusesLeftoverDirectory(t *testing.T) {
	root := t.TempDir()
	submissionID := uuid.New()

	_, err := workspace.Create(root, submissionID)
	require.NoError(t, err)

	_, err = workspace.Create(root, submissionID)
	require.Error(t, err, "a leftover directory from an earlier pass is a bug, not something to reuse")
}

func TestWriteInputs(t *testing.T) {
	ws, err := workspace.Create(t.TempDir(), uuid.New())
	require.NoError(t, err)

	tests := []*domain.TestCase{
		domain.NewTestCase(uuid.New(), "2\n", "4\n"),
		domain.NewTestCase(uuid.New(), "", ""),
	}
	require.NoError(t, ws.WriteInputs(tests))

	for _, tc := range tests {
		data, err := os.ReadFile(filepath.Join(ws.Dir, workspace.InputFileName(tc.ID)))
		require.NoError(t, err)
		assert.Equal(t, tc.Input, string(data), "input written byte for byte, no newline normalization")
	}
}

func TestCopyDockerfile(t *testing.T) {
	ws, err := workspace.Create(t.TempDir(), uuid.New())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "Dockerfile")
	content := "FROM ubuntu:22.04\nWORKDIR /grader\nCOPY . .\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))

	require.NoError(t, ws.CopyDockerfile(src))

	data, err := os.ReadFile(filepath.Join(ws.Dir, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestRemove(t *testing.T) {
	ws, err := workspace.Create(t.TempDir(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, ws.WriteInputs([]*domain.TestCase{domain.NewTestCase(uuid.New(), "1\n", "1\n")}))

	require.NoError(t, ws.Remove())

	_, err = os.Stat(ws.Dir)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is harmless.
	assert.NoError(t, ws.Remove())
}
