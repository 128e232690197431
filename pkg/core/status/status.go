// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/snapgit/pkg/errors"
)

var (
	// ErrNotValidated indicates that a document was submitted for saving without passing its round-trip check
	ErrNotValidated = errors.New("document not validated")

	// ErrNotLoggedIn indicates that an operation was attempted without an identity
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrInvalidProjectName indicates that nothing remains of a project name once sanitized
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrEmptyProject indicates that the repository of a project has no commit to build upon
	ErrEmptyProject = errors.New("project repository has no commit")

	// ErrStaleHead indicates that the branch moved while saving, and that the save was not published
	ErrStaleHead = errors.New("branch moved while saving")
)
