// Package status declares error constants returned by
// implementations of the remote.Service interface.
package status

import "github.com/oneconcern/snapgit/pkg/errors"

var (
	// ErrNotFound indicates that the remote did not find the target resource
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates that the credentials of the service handle were rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the remote forbids access to the target resource
	ErrForbidden = errors.New("forbidden")

	// ErrExists indicates that the resource already exists, e.g. a repository name is taken
	ErrExists = errors.New("exists already")

	// ErrInvalidObject indicates that an object submitted to the remote is malformed
	ErrInvalidObject = errors.New("invalid object")

	// ErrNotSupported indicates that the remote does not support this call or these arguments
	ErrNotSupported = errors.New("not supported")

	// ErrRemoteAPI indicates any other remote API error
	ErrRemoteAPI = errors.New("remote API error")
)
