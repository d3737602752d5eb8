// Package normalize cleans user supplied text before it is stored.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text returns s in Unicode NFC with control characters removed, runs of
// whitespace collapsed to one space and the ends trimmed.
//
// NFC keeps "é" typed as e + U+0301 from counting as two characters
// against a length limit.
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			// dropped
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Multiline is Text for free text fields such as summaries: line breaks are
// kept, other whitespace runs inside a line are collapsed.
func Multiline(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(norm.NFC.String(s), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = Text(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Labels normalizes each label with Text, splits comma separated entries
// and drops empties and case-insensitive duplicates. Order is kept.
// It returns nil only when raw is nil.
func Labels(raw []string) []string {
	if raw == nil {
		return nil
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for part := range strings.SplitSeq(entry, ",") {
			label := Text(part)
			if label == "" {
				continue
			}
			key := strings.ToLower(label)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}
