package patch

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around changes
const DefaultContext = 3

// Make renders the unified diff (hunks only) turning before into after.
//
// Identical texts yield an empty diff.
func Make(before, after string, context int) string {
	if before == after {
		return ""
	}
	a, b := splitLines(before), splitLines(after)

	var out strings.Builder
	matcher := difflib.NewMatcher(a, b)
	for _, group := range matcher.GetGroupedOpCodes(context) {
		first, last := group[0], group[len(group)-1]
		fmt.Fprintf(&out, "@@ -%s +%s @@\n", unifiedRange(first.I1, last.I2), unifiedRange(first.J1, last.J2))
		for _, op := range group {
			if op.Tag == 'e' {
				writeLines(&out, Context, a[op.I1:op.I2])
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				writeLines(&out, Delete, a[op.I1:op.I2])
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				writeLines(&out, Insert, b[op.J1:op.J2])
			}
		}
	}
	return out.String()
}

// splitLines keeps line terminators, so that a missing final newline is a change
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(out *strings.Builder, op Op, lines []string) {
	for _, line := range lines {
		out.WriteByte(byte(op))
		out.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			out.WriteString("\n" + noNewlineMarker + " No newline at end of file\n")
		}
	}
}

// unifiedRange formats a 0-based half-open range of lines as in unified diff headers
func unifiedRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	switch length {
	case 1:
		return fmt.Sprintf("%d", beginning)
	case 0:
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}
