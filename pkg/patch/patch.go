package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/oneconcern/snapgit/pkg/errors"
)

// ErrMalformed is returned when a diff text cannot be parsed
var ErrMalformed = errors.New("malformed unified diff")

const noNewlineMarker = `\`

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// Op is the operation carried by a line of a hunk
type Op byte

// Line operations
const (
	Context Op = ' '
	Delete  Op = '-'
	Insert  Op = '+'
)

// Line of a hunk, without its line terminator
type Line struct {
	Op   Op
	Text string
	// NoNewline is set when this line is the last of its file and has no line terminator
	NoNewline bool
}

func (l Line) String() string {
	if l.NoNewline {
		return l.Text
	}
	return l.Text + "\n"
}

// Hunk is a contiguous region of changes.
//
// Start positions are 1-based line numbers, as in the unified diff header.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Section            string
	Lines              []Line
}

// Texts returns the pre-image and the post-image of this hunk
func (h Hunk) Texts() (string, string) {
	var pre, post strings.Builder
	for _, l := range h.Lines {
		switch l.Op {
		case Context:
			pre.WriteString(l.String())
			post.WriteString(l.String())
		case Delete:
			pre.WriteString(l.String())
		case Insert:
			post.WriteString(l.String())
		}
	}
	return pre.String(), post.String()
}

// oldIndex is the 0-based index of the first line of the pre-image
func (h Hunk) oldIndex() int {
	if h.OldLines == 0 {
		return h.OldStart
	}
	return h.OldStart - 1
}

// PatchSet is the parsed unified diff of a single file
type PatchSet struct {
	Path  string
	Hunks []Hunk
}

// IsEmpty tells if this patch set carries no change
func (p PatchSet) IsEmpty() bool {
	return len(p.Hunks) == 0
}

// Parse a unified diff text for a single file.
//
// Lines before the first hunk (such as "diff --git", "---" or "+++" headers) are ignored.
// "\ No newline at end of file" markers are stripped and recorded on the line they follow.
// Lines are split on "\n" only: the carriage return of CRLF content stays in the line text.
func Parse(path, text string) (PatchSet, error) {
	ps := PatchSet{Path: path}
	if text == "" {
		return ps, nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var (
		current          *Hunk
		oldLeft, newLeft int
	)
	closeHunk := func() error {
		if current == nil {
			return nil
		}
		if oldLeft != 0 || newLeft != 0 {
			return ErrMalformed.Wrap(fmt.Errorf("%s: hunk at line %d is truncated", path, current.OldStart))
		}
		ps.Hunks = append(ps.Hunks, *current)
		current = nil
		return nil
	}

	for i, line := range lines {
		if m := hunkHeader.FindStringSubmatch(line); m != nil && (current == nil || (oldLeft == 0 && newLeft == 0)) {
			if err := closeHunk(); err != nil {
				return ps, err
			}
			current = &Hunk{
				OldStart: atoi(m[1]),
				OldLines: countOf(m[2]),
				NewStart: atoi(m[3]),
				NewLines: countOf(m[4]),
				Section:  strings.TrimSuffix(m[5], "\r"),
			}
			oldLeft, newLeft = current.OldLines, current.NewLines
			continue
		}

		if strings.HasPrefix(line, noNewlineMarker) {
			if current != nil && len(current.Lines) > 0 {
				current.Lines[len(current.Lines)-1].NoNewline = true
			}
			continue
		}

		if current == nil || (oldLeft == 0 && newLeft == 0) {
			// file headers, or trailing material between hunks
			continue
		}

		op, content := Context, ""
		switch {
		case line == "\r":
			// blank CRLF context line, with its leading space trimmed
			content = line
		case line != "":
			op, content = Op(line[0]), line[1:]
		}
		switch op {
		case Context:
			oldLeft--
			newLeft--
		case Delete:
			oldLeft--
		case Insert:
			newLeft--
		default:
			return ps, ErrMalformed.Wrap(fmt.Errorf("%s: unexpected line %d: %q", path, i+1, line))
		}
		if oldLeft < 0 || newLeft < 0 {
			return ps, ErrMalformed.Wrap(fmt.Errorf("%s: hunk at line %d overflows its header", path, current.OldStart))
		}
		current.Lines = append(current.Lines, Line{Op: op, Text: content})
	}

	if err := closeHunk(); err != nil {
		return ps, err
	}
	return ps, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// countOf a hunk range: an omitted count means a single line
func countOf(s string) int {
	if s == "" {
		return 1
	}
	return atoi(s)
}
