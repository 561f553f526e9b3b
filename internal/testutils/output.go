package testutils

import (
	"strings"
	"testing"
	"text/tabwriter"
)

// TestCase represents a single table-driven comparison.
type TestCase struct {
	Name     string
	Input    string
	Expected string
	Actual   string
	Pass     bool
}

// PrintTestTable logs a table of comparison results and fails the test once
// per failing row, marking failures with > and < pointers.
func PrintTestTable(t *testing.T, cases []TestCase) {
	t.Helper()

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)
	_, _ = w.Write([]byte("  Input\tExpected Value\tReturned Value\t\n"))

	for _, tc := range cases {
		leftPtr, rightPtr := " ", " "
		if !tc.Pass {
			leftPtr, rightPtr = ">", "<"
		}
		input := tc.Input
		if tc.Name != "" {
			input = tc.Name + ": " + input
		}
		_, _ = w.Write([]byte(leftPtr + " " + input + "\t" + tc.Expected + "\t" + tc.Actual + "\t" + rightPtr + "\n"))
	}
	_ = w.Flush()
	t.Log("\n" + sb.String())

	for _, tc := range cases {
		if !tc.Pass {
			t.Errorf("%s: expected %s, got %s", tc.Input, tc.Expected, tc.Actual)
		}
	}
}
