package patch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result of applying a patch set
type Result struct {
	Applied int
	Skipped int
	Failed  int
}

// Changed tells if some hunk modified the text
func (r Result) Changed() bool {
	return r.Applied > 0
}

// Apply this patch set to some text, on a best effort basis.
//
// Hunks whose post-image is already present (and pre-image absent) are skipped.
// Hunks which cannot be located are counted as failed and leave the text unchanged.
func (p PatchSet) Apply(text string) (string, Result) {
	var (
		res   Result
		delta int
	)
	dmp := diffmatchpatch.New()

	for _, h := range p.Hunks {
		pre, post := h.Texts()
		if pre == post || alreadyApplied(text, pre, post) {
			res.Skipped++
			delta += h.NewLines - h.OldLines
			continue
		}

		offset := lineOffset(text, h.oldIndex()+delta)
		patches, err := dmp.PatchFromText(dmpText(h, offset))
		if err != nil {
			res.Failed++
			continue
		}

		patched, applied := dmp.PatchApply(patches, text)
		if !allTrue(applied) {
			res.Failed++
			continue
		}
		text = patched
		res.Applied++
		delta += h.NewLines - h.OldLines
	}
	return text, res
}

// alreadyApplied tells if the post-image of a hunk is found in the text, while its pre-image is not
// (or is part of the post-image).
func alreadyApplied(text, pre, post string) bool {
	if post == "" {
		return !strings.Contains(text, pre)
	}
	if !strings.Contains(text, post) {
		return false
	}
	return pre == "" || strings.Contains(post, pre) || !strings.Contains(text, pre)
}

// lineOffset returns the byte offset of the 0-based line index in text, bounded by the text length
func lineOffset(text string, index int) int {
	offset := 0
	for i := 0; i < index; i++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}
	return offset
}

// dmpText renders a hunk in the diff-match-patch patch format, located at some byte offset.
//
// Each line of the hunk becomes one diff segment, with its line terminator.
func dmpText(h Hunk, offset int) string {
	pre, post := h.Texts()

	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%s +%s @@\n", dmpCoords(offset, len(pre)), dmpCoords(offset, len(post)))
	for _, l := range h.Lines {
		segment := l.String()
		if segment == "" {
			continue
		}
		b.WriteByte(byte(l.Op))
		b.WriteString(url.PathEscape(segment))
		b.WriteByte('\n')
	}
	return b.String()
}

func dmpCoords(start, length int) string {
	switch length {
	case 0:
		return strconv.Itoa(start) + ",0"
	case 1:
		return strconv.Itoa(start + 1)
	default:
		return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
	}
}

func allTrue(results []bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
