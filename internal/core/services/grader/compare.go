package grader

import "gitlab.com/gav-2025.net/internal/domain"

// Compare grades actual against expected output. Passing requires
// exact equality, case- and whitespace-sensitive. The per-character
// annotation walks the actual output positionally: a character is
// incorrect when it differs from the expected character at the same
// index or lies beyond the expected length. Annotation is a display
// aid only and never feeds the pass/fail decision.
func Compare(actual, expected string) domain.TestResult {
	actualRunes := []rune(actual)
	expectedRunes := []rune(expected)

	marks := make([]domain.CharMark, 0, len(actualRunes))
	for i, r := range actualRunes {
		marks = append(marks, domain.CharMark{
			Char:      string(r),
			Incorrect: i >= len(expectedRunes) || r != expectedRunes[i],
			Newline:   r == '\n',
		})
	}

	return domain.TestResult{
		Passed:         actual == expected,
		ExpectedOutput: expected,
		Output:         marks,
		// Signed: negative means the program printed extra output.
		MissingOutput: len(expectedRunes) - len(actualRunes),
	}
}
