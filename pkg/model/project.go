package model

import "time"

const (
	// ProgramFile holds the serialized program of a project
	ProgramFile = "snap.xml"

	// NotesFile holds the notes of a project
	NotesFile = "README.md"

	// DefaultCommitMessage is used when saving without a message
	DefaultCommitMessage = "Meow!"
)

// File is a named piece of text persisted in a repository
type File struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
}

// Document is the set of files persisted by a save.
//
// Validated must be set by whoever checked that the content survives a round-trip
// through its own serializer: unvalidated documents are never written.
type Document struct {
	Files     []File `json:"files" yaml:"files"`
	Validated bool   `json:"validated" yaml:"validated"`
}

// Content of a file in this document, by path
func (d Document) Content(path string) (string, bool) {
	for _, f := range d.Files {
		if f.Path == path {
			return f.Content, true
		}
	}
	return "", false
}

// Paths of the files in this document, in order
func (d Document) Paths() []string {
	paths := make([]string, len(d.Files))
	for i, f := range d.Files {
		paths[i] = f.Path
	}
	return paths
}

// ProjectDocument builds an unvalidated document from a program and its notes
func ProjectDocument(program, notes string) Document {
	return Document{
		Files: []File{
			{Path: ProgramFile, Content: program},
			{Path: NotesFile, Content: notes},
		},
	}
}

// Project is a project retrieved from the remote, with the commit it was read at
type Project struct {
	Owner   string `json:"owner" yaml:"owner"`
	Name    string `json:"name" yaml:"name"`
	Program string `json:"program" yaml:"program"`
	Commit  string `json:"commit" yaml:"commit"`
}

// ProjectListing is the summary of a project, as listed for its owner
type ProjectListing struct {
	Name    string    `json:"name" yaml:"name"`
	Notes   string    `json:"notes" yaml:"notes"`
	Updated time.Time `json:"updated" yaml:"updated"`
}

// ProjectListings is a sortable collection of project listings
type ProjectListings []ProjectListing

func (p ProjectListings) Len() int           { return len(p) }
func (p ProjectListings) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p ProjectListings) Less(i, j int) bool { return p[i].Name < p[j].Name }
