package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeProjectName(t *testing.T) {
	for _, toPin := range []struct {
		name     string
		expected string
	}{
		{name: "demo", expected: "demo"},
		{name: "my demo!", expected: "mydemo"},
		{name: "snap-proj_1", expected: "snap-proj_1"},
		{name: "a/b.c", expected: "abc"},
		{name: "!!!", expected: ""},
	} {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			assert.Equal(t, testcase.expected, SanitizeProjectName(testcase.name))
		})
	}
}

func TestValidateRepoName(t *testing.T) {
	require.NoError(t, ValidateRepoName("dm-test_repo-1"))
	require.Error(t, ValidateRepoName(""))
	require.Error(t, ValidateRepoName("bad name"))
}

func TestProjectDescription(t *testing.T) {
	desc := ProjectDescription(DefaultMarker, DefaultSite, "fred", "demo")
	assert.Equal(t, "Snap! Project - http://gubolin.github.io/snap/index.html#github:Username=fred&projectName=demo", desc)

	r := RepositoryRecord{Name: "demo", Description: desc}
	assert.True(t, r.IsProject(DefaultMarker))
	assert.False(t, RepositoryRecord{Name: "other", Description: "some lib"}.IsProject(DefaultMarker))
}

func TestDocument(t *testing.T) {
	doc := ProjectDocument("<project/>", "notes")
	assert.False(t, doc.Validated)
	assert.Equal(t, []string{ProgramFile, NotesFile}, doc.Paths())

	content, ok := doc.Content(NotesFile)
	require.True(t, ok)
	assert.Equal(t, "notes", content)

	_, ok = doc.Content("missing")
	assert.False(t, ok)
}

func TestSortRecords(t *testing.T) {
	records := RepositoryRecords{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	sort.Sort(records)
	assert.True(t, sort.IsSorted(records))
	assert.Equal(t, "a", records[0].Name)

	listings := ProjectListings{{Name: "z"}, {Name: "y"}}
	sort.Sort(listings)
	assert.Equal(t, "y", listings[0].Name)

	head, ok := Commits{{SHA: "new"}, {SHA: "old"}}.Head()
	require.True(t, ok)
	assert.Equal(t, "new", head.SHA)
	_, ok = Commits(nil).Head()
	assert.False(t, ok)
}
