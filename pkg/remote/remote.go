// Package remote defines the capabilities consumed from a git-style remote repository service.
//
// Implementations include an in-process service backed by go-git (package gitlocal)
// and the GitHub REST API (package github).
package remote

import (
	"context"

	"github.com/oneconcern/snapgit/pkg/model"
)

// BranchRef is the name of the reference advanced by saves
const BranchRef = "heads/" + model.DefaultBranch

// Service is a content-addressable object store with repository-scoped namespaces.
//
// All objects are immutable once created: only references move.
// Implementations return errors from the status package whenever applicable.
type Service interface {
	// String returns the label of this service, used to tag the errors it produces
	String() string

	// FetchFileContent returns the decoded content of a file at the head of the default branch
	FetchFileContent(ctx context.Context, owner, repo, path string) ([]byte, error)
	// FetchCommitHistory returns the commits of the default branch, newest first
	FetchCommitHistory(ctx context.Context, owner, repo string) (model.Commits, error)
	// FetchCommit returns a single commit
	FetchCommit(ctx context.Context, owner, repo, sha string) (model.Commit, error)

	// CreateBlob stores content and returns its identifier
	CreateBlob(ctx context.Context, owner, repo, content, encoding string) (string, error)
	// CreateTree creates a tree layered on baseTree, with entries overriding some paths
	CreateTree(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (string, error)
	// CreateCommit creates a commit, which is not attached to any reference
	CreateCommit(ctx context.Context, owner, repo, message, tree string, parents []string) (string, error)
	// UpdateRef moves a reference (e.g. "heads/master") to a commit, regardless of its previous value
	UpdateRef(ctx context.Context, owner, repo, ref, sha string) error

	// CompareCommits returns the per-file unified diffs between two commits
	CompareCommits(ctx context.Context, owner, repo, base, head string) ([]model.FileDiff, error)

	// ListOwnedRepos lists the repositories owned by the authenticated identity
	ListOwnedRepos(ctx context.Context) (model.RepositoryRecords, error)
	// CreateRepo creates a repository owned by the authenticated identity
	CreateRepo(ctx context.Context, name, description string, flags model.CreateRepoFlags) (model.RepositoryRecord, error)
}
