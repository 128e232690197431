package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/snapgit/internal/rand"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgram = `<project name="demo"><scripts></scripts></project>`
	testNotes   = "# A demo project\n\nSome notes\n"
)

type exitMocks struct {
	fatalCalls int
	messages   []string
}

func (m *exitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *exitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintln(v...))
}

type cliHarness struct {
	root  string
	exits *exitMocks
	out   *bytes.Buffer
	errs  *bytes.Buffer
}

func setupTests(t *testing.T) *cliHarness {
	h := &cliHarness{
		root:  t.TempDir(),
		exits: new(exitMocks),
		out:   new(bytes.Buffer),
		errs:  new(bytes.Buffer),
	}
	projectFs = afero.NewMemMapFs()
	logFatalf = h.exits.Fatalf
	logFatalln = h.exits.Fatalln
	infoLogger.SetOutput(h.out)
	rootCmd.SetErr(h.errs)

	t.Cleanup(func() {
		projectFs = afero.NewOsFs()
		infoLogger.SetOutput(os.Stdout)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	return h
}

// run executes a command against the local repositories of the harness
func (h *cliHarness) run(t *testing.T, expectError bool, args ...string) string {
	fatalCallsBefore := h.exits.fatalCalls
	h.out.Reset()
	h.errs.Reset()
	snapgitFlags = flagsT{}

	args = append(args, "--backend", "local", "--identity", "bob", "--local-root", h.root, "--loglevel", "none")
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "error executing '"+strings.Join(args, " ")+"'")
	if expectError {
		require.Greater(t, h.exits.fatalCalls, fatalCallsBefore, "expected a failure executing '"+strings.Join(args, " ")+"'")
	} else {
		require.Equal(t, fatalCallsBefore, h.exits.fatalCalls, "unexpected failure executing '"+strings.Join(args, " ")+"': %v", h.exits.messages)
	}
	return h.out.String()
}

func writeFile(t *testing.T, name, content string) {
	require.NoError(t, afero.WriteFile(projectFs, name, []byte(content), 0o644))
}

func TestProjectLifecycle(t *testing.T) {
	h := setupTests(t)
	writeFile(t, "demo.xml", testProgram)
	writeFile(t, "notes.md", testNotes)

	out := h.run(t, false, "project", "save", "--name", "demo", "--program", "demo.xml", "--notes", "notes.md")
	assert.Contains(t, out, "created project demo")
	assert.Contains(t, out, "saved demo at ")

	out = h.run(t, false, "project", "list")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "A demo project")

	h.run(t, false, "project", "get", "--name", "demo", "--output", "out.xml")
	program, err := afero.ReadFile(projectFs, "out.xml")
	require.NoError(t, err)
	assert.Equal(t, "<snapdata>"+testProgram+"</snapdata>", string(program))
	require.True(t, strings.HasPrefix(h.errs.String(), "commit: "))
	base := strings.TrimSpace(strings.TrimPrefix(h.errs.String(), "commit: "))
	require.Len(t, base, 40)

	writeFile(t, "notes.md", testNotes+rand.Lines(3, 40))
	out = h.run(t, false, "project", "save", "--name", "demo", "--program", "demo.xml", "--notes", "notes.md",
		"--base", base, "--message", "more notes", "--stale-check")
	assert.NotContains(t, out, "created project")
	assert.Contains(t, out, "saved demo at ")

	out = h.run(t, false, "project", "get", "--name", "demo")
	assert.Contains(t, out, testProgram)

	_, err = os.Stat(filepath.Join(h.root, "repos", "bob", "demo.git"))
	assert.NoError(t, err)

	var buf bytes.Buffer
	printMetrics(&buf)
	assert.Contains(t, buf.String(), "snapgit_remote_calls_total{op=CreateBlob,service=local}")
}

func TestProjectSaveInvalid(t *testing.T) {
	h := setupTests(t)
	writeFile(t, "broken.xml", "<project><scripts></project>")

	h.run(t, true, "project", "save", "--name", "broken", "--program", "broken.xml")
	h.run(t, true, "project", "save", "--name", "missing", "--program", "missing.xml")
	h.run(t, true, "project", "get", "--name", "unknown")
}

func TestLoginAndConfig(t *testing.T) {
	h := setupTests(t)

	out := h.run(t, false, "login")
	assert.Contains(t, out, "bob")

	out = h.run(t, false, "config", "show", "--token", "s3cr3t")
	assert.Contains(t, out, "backend: local")
	assert.Contains(t, out, "owner: bob")
	assert.NotContains(t, out, "s3cr3t")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "A demo project", summary(testNotes))
	assert.Equal(t, "", summary("\n\n"))
	assert.Equal(t, "plain", summary("plain"))
}

func TestVersion(t *testing.T) {
	h := setupTests(t)

	out := h.run(t, false, "version")
	assert.Contains(t, out, "version: dev")
	assert.NotContains(t, out, "gitState")

	Version, GitCommit = "v1.2.0", "abc123"
	defer func() { Version, GitCommit = "", "" }()
	info := NewVersionInfo()
	assert.Equal(t, "clean", info.GitState)
	assert.Contains(t, info.String(), "gitCommit: abc123")
}
