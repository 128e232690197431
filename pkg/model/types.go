package model

import (
	"time"
)

const (
	// ModeRegular is the git file mode of a non-executable regular file
	ModeRegular = "100644"

	// TypeBlob is the kind of tree entries pointing to a blob
	TypeBlob = "blob"

	// EncodingUTF8 is the encoding used when creating blobs from text
	EncodingUTF8 = "utf-8"

	// EncodingBase64 is the encoding used by the remote to transfer content
	EncodingBase64 = "base64"
)

// Blob is an immutable, content-addressed payload
type Blob struct {
	SHA      string `json:"sha" yaml:"sha"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// TreeEntry overrides one path in a tree
type TreeEntry struct {
	Path string `json:"path" yaml:"path"`
	Mode string `json:"mode" yaml:"mode"`
	Type string `json:"type" yaml:"type"`
	SHA  string `json:"sha" yaml:"sha"`
}

// BlobEntry builds the tree entry of a regular file pointing to a blob
func BlobEntry(path, sha string) TreeEntry {
	return TreeEntry{
		Path: path,
		Mode: ModeRegular,
		Type: TypeBlob,
		SHA:  sha,
	}
}

// Commit is an immutable snapshot pointer
type Commit struct {
	SHA       string    `json:"sha" yaml:"sha"`
	TreeSHA   string    `json:"tree" yaml:"tree"`
	Parents   []string  `json:"parents,omitempty" yaml:"parents,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Commits is a history of commits, newest first
type Commits []Commit

// Head returns the newest commit, if any
func (c Commits) Head() (Commit, bool) {
	if len(c) == 0 {
		return Commit{}, false
	}
	return c[0], true
}

// File change status in a comparison between two commits
const (
	FileAdded    = "added"
	FileModified = "modified"
	FileRemoved  = "removed"
)

// FileDiff is the unified diff text describing the changes of one path between two commits
type FileDiff struct {
	Path   string `json:"filename" yaml:"filename"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Patch  string `json:"patch,omitempty" yaml:"patch,omitempty"`
}
