package patch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseNotes   = "# demo\n\nold notes\n"
	remoteNotes = "# demo\n\nnew notes\n"
)

func numberedLines(n int, edit map[int]string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if line, ok := edit[i]; ok {
			b.WriteString(line + "\n")
			continue
		}
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestMake(t *testing.T) {
	assert.Empty(t, Make(baseNotes, baseNotes, DefaultContext))

	assert.Equal(t,
		"@@ -1,3 +1,3 @@\n # demo\n \n-old notes\n+new notes\n",
		Make(baseNotes, remoteNotes, DefaultContext),
	)

	assert.Equal(t,
		"@@ -0,0 +1,2 @@\n+a\n+b\n",
		Make("", "a\nb\n", DefaultContext),
	)

	assert.Equal(t,
		"@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+c\n\\ No newline at end of file\n",
		Make("a\nb", "a\nc", DefaultContext),
	)
}

func TestParse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ps, err := Parse("README.md", "")
		require.NoError(t, err)
		assert.True(t, ps.IsEmpty())
	})

	t.Run("with headers and section", func(t *testing.T) {
		text := "diff --git a/snap.xml b/snap.xml\n" +
			"index 83db48f..bf269f4 100644\n" +
			"--- a/snap.xml\n" +
			"+++ b/snap.xml\n" +
			"@@ -10,3 +10,4 @@ <project name=\"demo\">\n" +
			" <a/>\n" +
			"-<b/>\n" +
			"+<c/>\n" +
			"+<d/>\n" +
			" <e/>\n" +
			"@@ -20 +21 @@\n" +
			"-<x/>\n" +
			"+<y/>\n"
		ps, err := Parse("snap.xml", text)
		require.NoError(t, err)
		require.Len(t, ps.Hunks, 2)

		h := ps.Hunks[0]
		assert.Equal(t, 10, h.OldStart)
		assert.Equal(t, 3, h.OldLines)
		assert.Equal(t, 10, h.NewStart)
		assert.Equal(t, 4, h.NewLines)
		assert.Equal(t, `<project name="demo">`, h.Section)
		require.Len(t, h.Lines, 5)
		assert.Equal(t, Line{Op: Delete, Text: "<b/>"}, h.Lines[1])

		pre, post := h.Texts()
		assert.Equal(t, "<a/>\n<b/>\n<e/>\n", pre)
		assert.Equal(t, "<a/>\n<c/>\n<d/>\n<e/>\n", post)

		h = ps.Hunks[1]
		assert.Equal(t, 1, h.OldLines)
		assert.Equal(t, 1, h.NewLines)
	})

	t.Run("strips no newline markers", func(t *testing.T) {
		ps, err := Parse("README.md", Make("a\nb", "a\nc", DefaultContext))
		require.NoError(t, err)
		require.Len(t, ps.Hunks, 1)
		for _, l := range ps.Hunks[0].Lines {
			assert.NotContains(t, l.Text, "No newline")
		}
		pre, post := ps.Hunks[0].Texts()
		assert.Equal(t, "a\nb", pre)
		assert.Equal(t, "a\nc", post)
	})

	t.Run("keeps carriage returns", func(t *testing.T) {
		ps, err := Parse("README.md", "@@ -1,3 +1,3 @@\n a\r\n\r\n-b\r\n+B\r\n")
		require.NoError(t, err)
		require.Len(t, ps.Hunks, 1)
		pre, post := ps.Hunks[0].Texts()
		assert.Equal(t, "a\r\n\r\nb\r\n", pre)
		assert.Equal(t, "a\r\n\r\nB\r\n", post)
	})

	t.Run("truncated hunk", func(t *testing.T) {
		_, err := Parse("README.md", "@@ -1,3 +1,3 @@\n a\n-b\n")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("invalid line", func(t *testing.T) {
		_, err := Parse("README.md", "@@ -1,2 +1,2 @@\n a\n*b\n")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformed))
	})
}

func mustParse(t testing.TB, before, after string) PatchSet {
	ps, err := Parse("file", Make(before, after, DefaultContext))
	require.NoError(t, err)
	return ps
}

func TestApply(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		before   string
		after    string
		target   string
		expected string
		result   Result
	}{
		{
			name:     "absorbs remote change",
			before:   baseNotes,
			after:    remoteNotes,
			target:   baseNotes,
			expected: remoteNotes,
			result:   Result{Applied: 1},
		},
		{
			name:     "already applied",
			before:   baseNotes,
			after:    remoteNotes,
			target:   remoteNotes,
			expected: remoteNotes,
			result:   Result{Skipped: 1},
		},
		{
			name:     "added file already there",
			before:   "",
			after:    "a\nb\n",
			target:   "a\nb\n",
			expected: "a\nb\n",
			result:   Result{Skipped: 1},
		},
		{
			name:     "added file on empty text",
			before:   "",
			after:    "a\nb\n",
			target:   "",
			expected: "a\nb\n",
			result:   Result{Applied: 1},
		},
		{
			name:     "no final newline",
			before:   "a\nb",
			after:    "a\nc",
			target:   "a\nb",
			expected: "a\nc",
			result:   Result{Applied: 1},
		},
		{
			name:     "merges with a local change elsewhere",
			before:   numberedLines(20, nil),
			after:    numberedLines(20, map[int]string{15: "remote 15"}),
			target:   numberedLines(20, map[int]string{2: "local 2"}),
			expected: numberedLines(20, map[int]string{2: "local 2", 15: "remote 15"}),
			result:   Result{Applied: 1},
		},
		{
			name:     "keeps CRLF line endings",
			before:   "a\r\nb\r\nc\r\n",
			after:    "a\r\nB\r\nc\r\n",
			target:   "a\r\nb\r\nc\r\n",
			expected: "a\r\nB\r\nc\r\n",
			result:   Result{Applied: 1},
		},
		{
			name:     "CRLF already applied",
			before:   "a\r\nb\r\nc\r\n",
			after:    "a\r\nB\r\nc\r\n",
			target:   "a\r\nB\r\nc\r\n",
			expected: "a\r\nB\r\nc\r\n",
			result:   Result{Skipped: 1},
		},
		{
			name:     "unrelated text",
			before:   baseNotes,
			after:    remoteNotes,
			target:   strings.Repeat("0123456789abcdefghij\n", 10),
			expected: strings.Repeat("0123456789abcdefghij\n", 10),
			result:   Result{Failed: 1},
		},
	} {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			ps := mustParse(t, testcase.before, testcase.after)
			patched, res := ps.Apply(testcase.target)
			assert.Equal(t, testcase.expected, patched)
			assert.Equal(t, testcase.result, res)
		})
	}
}

func TestApplySeveralHunks(t *testing.T) {
	before := numberedLines(40, nil)
	after := numberedLines(40, map[int]string{5: "remote 5", 35: "remote 35"})

	ps := mustParse(t, before, after)
	require.Len(t, ps.Hunks, 2)

	patched, res := ps.Apply(before)
	assert.Equal(t, after, patched)
	assert.Equal(t, Result{Applied: 2}, res)
	assert.True(t, res.Changed())

	// applying twice is a no-op
	again, res := ps.Apply(patched)
	assert.Equal(t, after, again)
	assert.Equal(t, Result{Skipped: 2}, res)
	assert.False(t, res.Changed())
}

func TestDmpText(t *testing.T) {
	ps := mustParse(t, "a+b\n", "a b%\n")
	require.Len(t, ps.Hunks, 1)
	assert.Equal(t, "@@ -1,4 +1,5 @@\n-a+b%0A\n+a%20b%25%0A\n", dmpText(ps.Hunks[0], 0))
}
