package core

import (
	"context"
	"time"

	"github.com/oneconcern/snapgit/pkg/core/status"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SaveRequest describes a save of a project
type SaveRequest struct {
	// Name of the project, sanitized to become the name of the repository
	Name string
	// Message of the commit. Defaults to the configured commit message
	Message string
	// BaseCommit is the commit the document was derived from, as returned by GetProject.
	// Leave empty for new projects.
	BaseCommit string
	// Document to save. It must be validated.
	Document model.Document
}

// SaveResult describes a successful save
type SaveResult struct {
	Repo         string
	Created      bool
	Base         string
	Intermediate string
	Final        string
	Reconciled   []FileReconciliation
}

// SaveProject saves a validated document as the new head of a project.
//
// The document is first committed on top of the current head, then the changes found between
// the base commit of the document and this intermediate commit are merged into the document,
// which is committed again. The branch finally moves to this last commit.
//
// The branch is overwritten, so that concurrent saves of the same project race at this point:
// the last writer wins (see WithStaleHeadCheck).
func (c *Client) SaveProject(ctx context.Context, req SaveRequest) (SaveResult, error) {
	if !req.Document.Validated {
		return SaveResult{}, status.ErrNotValidated
	}
	owner, err := c.requireLogin()
	if err != nil {
		return SaveResult{}, err
	}
	repo, err := sanitize(req.Name)
	if err != nil {
		return SaveResult{}, err
	}
	message := req.Message
	if message == "" {
		message = c.message
	}

	t0 := time.Now()
	l := c.l.With(
		zap.String("op", ksuid.New().String()),
		zap.String("owner", owner),
		zap.String("repo", repo),
	)
	l.Debug("saving project", zap.Strings("files", req.Document.Paths()))

	created, err := c.ensureProject(ctx, owner, repo)
	if err != nil {
		return SaveResult{}, err
	}
	head, err := c.headCommit(ctx, owner, repo)
	if err != nil {
		return SaveResult{}, err
	}
	base := req.BaseCommit
	if base == "" {
		base = head.SHA
	}

	intermediate, err := c.upload(ctx, owner, repo, req.Document.Files, head.SHA, message)
	if err != nil {
		return SaveResult{}, err
	}
	if err = ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	files, reconciled, err := c.reconcile(ctx, l, owner, repo, base, intermediate, req.Document.Files)
	if err != nil {
		return SaveResult{}, err
	}
	if err = ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	final, err := c.upload(ctx, owner, repo, files, intermediate, message)
	if err != nil {
		return SaveResult{}, err
	}
	if err = c.updateHead(ctx, owner, repo, head.SHA, final); err != nil {
		return SaveResult{}, err
	}

	l.Info("project saved",
		zap.Bool("created", created),
		zap.String("base", base),
		zap.String("commit", final),
		zap.Duration("duration", time.Since(t0)),
	)
	return SaveResult{
		Repo:         repo,
		Created:      created,
		Base:         base,
		Intermediate: intermediate,
		Final:        final,
		Reconciled:   reconciled,
	}, nil
}

// upload creates a commit holding files on top of the tree of parent. The branch does not move.
//
// Blobs are created concurrently: the tree is created once all of them are available.
func (c *Client) upload(ctx context.Context, owner, repo string, files []model.File, parent, message string) (string, error) {
	shas := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			sha, err := c.svc.CreateBlob(gctx, owner, repo, file.Content, model.EncodingUTF8)
			if err != nil {
				return c.remoteErr(err)
			}
			shas[i] = sha
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	// the group context is done once Wait returns: cancellation is checked on the caller's
	if err := ctx.Err(); err != nil {
		return "", err
	}

	parentCommit, err := c.svc.FetchCommit(ctx, owner, repo, parent)
	if err != nil {
		return "", c.remoteErr(err)
	}
	entries := make([]model.TreeEntry, 0, len(files))
	for i, file := range files {
		entries = append(entries, model.BlobEntry(file.Path, shas[i]))
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}
	tree, err := c.svc.CreateTree(ctx, owner, repo, entries, parentCommit.TreeSHA)
	if err != nil {
		return "", c.remoteErr(err)
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}
	commit, err := c.svc.CreateCommit(ctx, owner, repo, message, tree, []string{parent})
	if err != nil {
		return "", c.remoteErr(err)
	}
	return commit, nil
}

// updateHead moves the default branch to commit
func (c *Client) updateHead(ctx context.Context, owner, repo, expected, commit string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.staleHeadCheck {
		head, err := c.headCommit(ctx, owner, repo)
		if err != nil {
			return err
		}
		if head.SHA != expected {
			return status.ErrStaleHead
		}
	}
	if err := c.svc.UpdateRef(ctx, owner, repo, remote.BranchRef, commit); err != nil {
		return c.remoteErr(err)
	}
	return nil
}
