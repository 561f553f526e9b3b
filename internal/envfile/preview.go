package envfile

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview returns the changed lines an Upsert of key would produce, prefixed
// with "-" and "+". The file is not modified and no lock is taken.
func (s *Store) Preview(key, value string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	content, _, err := s.read()
	if err != nil {
		return "", err
	}
	return LineDiff(content, Render(content, key, value)), nil
}

// LineDiff lists the lines removed from before and added in after.
func LineDiff(before, after string) string {
	// Diff whole lines, so both sides need a terminating newline
	if !strings.HasSuffix(before, "\n") {
		before += "\n"
	}
	if !strings.HasSuffix(after, "\n") {
		after += "\n"
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}
