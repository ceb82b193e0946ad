package grader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gav-2025.net/internal/core/services/grader"
)

func TestCompareExactMatch(t *testing.T) {
	result := grader.Compare("5\n", "5\n")

	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.MissingOutput)

	require.Len(t, result.Output, 2)
	assert.Equal(t, "5", result.Output[0].Char)
	assert.False(t, result.Output[0].Incorrect)
	assert.False(t, result.Output[0].Newline)
	assert.Equal(t, "\n", result.Output[1].Char)
	assert.False(t, result.Output[1].Incorrect)
	assert.True(t, result.Output[1].Newline)
}

func TestCompareMissingTrailingNewline(t *testing.T) {
	result := grader.Compare("5", "5\n")

	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.MissingOutput)

	require.Len(t, result.Output, 1)
	assert.False(t, result.Output[0].Incorrect)
}

func TestCompareExtraOutput(t *testing.T) {
	result := grader.Compare("55\n", "5\n")

	assert.False(t, result.Passed)
	// Actual is longer than expected, so the deficit is negative.
	assert.Equal(t, -1, result.MissingOutput)

	require.Len(t, result.Output, 3)
	assert.False(t, result.Output[0].Incorrect)
	// '5' where '\n' was expected.
	assert.True(t, result.Output[1].Incorrect)
	// Beyond the expected length entirely.
	assert.True(t, result.Output[2].Incorrect)
	assert.True(t, result.Output[2].Newline)
}

func TestCompareBothEmpty(t *testing.T) {
	result := grader.Compare("", "")

	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.MissingOutput)
	assert.Empty(t, result.Output)
}

func TestCompareEmptyActual(t *testing.T) {
	result := grader.Compare("", "42\n")

	assert.False(t, result.Passed)
	assert.Equal(t, 3, result.MissingOutput)
	assert.Empty(t, result.Output)
}

func TestCompareCaseSensitive(t *testing.T) {
	result := grader.Compare("Hello\n", "hello\n")

	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.MissingOutput)
	assert.True(t, result.Output[0].Incorrect)
	for _, mark := range result.Output[1:] {
		assert.False(t, mark.Incorrect)
	}
}

func TestCompareWhitespaceSensitive(t *testing.T) {
	result := grader.Compare("1 2\n", "1  2\n")

	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.MissingOutput)
}

func TestCompareCountsRunesNotBytes(t *testing.T) {
	result := grader.Compare("é", "éé")

	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.MissingOutput)
	require.Len(t, result.Output, 1)
	assert.Equal(t, "é", result.Output[0].Char)
	assert.False(t, result.Output[0].Incorrect)
}

func TestComparePassIndependentOfAnnotation(t *testing.T) {
	// Equality is the grading signal; annotation marks nothing when
	// outputs agree.
	result := grader.Compare("a\nb\n", "a\nb\n")

	assert.True(t, result.Passed)
	for _, mark := range result.Output {
		assert.False(t, mark.Incorrect)
	}
}
