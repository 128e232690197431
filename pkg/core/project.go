package core

import (
	"context"
	"sort"
	"strings"

	"github.com/oneconcern/snapgit/pkg/core/status"
	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/model"
	remotestatus "github.com/oneconcern/snapgit/pkg/remote/status"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxReadAttempts bounds the reads of a project while concurrent saves move its head
const maxReadAttempts = 3

func sanitize(name string) (string, error) {
	sanitized := model.SanitizeProjectName(name)
	if sanitized == "" {
		return "", status.ErrInvalidProjectName
	}
	return sanitized, nil
}

// projectExists tells if a repository tagged as a project has a name containing name
func (c *Client) projectExists(repos model.RepositoryRecords, name string) bool {
	for _, repo := range repos {
		if repo.IsProject(c.marker) && strings.Contains(repo.Name, name) {
			return true
		}
	}
	return false
}

// ensureProject creates the repository of a project, unless a project with a matching name exists.
//
// It returns true when the repository was created.
func (c *Client) ensureProject(ctx context.Context, owner, name string) (bool, error) {
	repos, err := c.svc.ListOwnedRepos(ctx)
	if err != nil {
		return false, c.remoteErr(err)
	}
	if c.projectExists(repos, name) {
		return false, nil
	}

	description := model.ProjectDescription(c.marker, c.site, owner, name)
	if _, err = c.svc.CreateRepo(ctx, name, description, model.ProjectRepoFlags()); err != nil {
		return false, c.remoteErr(err)
	}
	c.l.Info("project repository created", zap.String("owner", owner), zap.String("repo", name))
	return true, nil
}

// headCommit returns the newest commit of the default branch of a repository
func (c *Client) headCommit(ctx context.Context, owner, repo string) (model.Commit, error) {
	history, err := c.svc.FetchCommitHistory(ctx, owner, repo)
	if err != nil {
		return model.Commit{}, c.remoteErr(err)
	}
	head, ok := history.Head()
	if !ok {
		return model.Commit{}, status.ErrEmptyProject
	}
	return head, nil
}

// GetProject fetches the program of a project, and the commit it was read at.
//
// The head is read again after the program: when a save moved it in between, the program is
// read again. ErrStaleHead is returned when the head keeps moving.
//
// The commit is the base to pass along the next save of the project. An empty owner
// stands for the identity of the client.
func (c *Client) GetProject(ctx context.Context, owner, name string) (model.Project, error) {
	self, err := c.requireLogin()
	if err != nil {
		return model.Project{}, err
	}
	if owner == "" {
		owner = self
	}
	repo, err := sanitize(name)
	if err != nil {
		return model.Project{}, err
	}

	head, err := c.headCommit(ctx, owner, repo)
	if err != nil {
		return model.Project{}, err
	}
	var program []byte
	for attempt := 1; ; attempt++ {
		program, err = c.svc.FetchFileContent(ctx, owner, repo, model.ProgramFile)
		if err != nil {
			return model.Project{}, c.remoteErr(err)
		}
		// the content must be paired with the commit it was read at
		var after model.Commit
		if after, err = c.headCommit(ctx, owner, repo); err != nil {
			return model.Project{}, err
		}
		if after.SHA == head.SHA {
			break
		}
		c.l.Debug("head moved while reading project", zap.String("repo", repo), zap.String("head", after.SHA))
		head = after
		if attempt == maxReadAttempts {
			return model.Project{}, status.ErrStaleHead
		}
	}
	return model.Project{
		Owner:   owner,
		Name:    repo,
		Program: string(program),
		Commit:  head.SHA,
	}, nil
}

// ListProjects lists the projects of the identity of the client, with their notes, by name.
//
// Repositories are recognized as projects by the marker in their description. Notes are fetched
// concurrently. A project without notes is listed with empty notes.
func (c *Client) ListProjects(ctx context.Context) (model.ProjectListings, error) {
	owner, err := c.requireLogin()
	if err != nil {
		return nil, err
	}
	repos, err := c.svc.ListOwnedRepos(ctx)
	if err != nil {
		return nil, c.remoteErr(err)
	}

	listed := make([]*model.ProjectListing, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			if !repo.IsProject(c.marker) {
				return nil
			}
			repoOwner := repo.Owner
			if repoOwner == "" {
				repoOwner = owner
			}
			notes, err := c.svc.FetchFileContent(gctx, repoOwner, repo.Name, model.NotesFile)
			if err != nil && !errors.Is(err, remotestatus.ErrNotFound) {
				return c.remoteErr(err)
			}
			listed[i] = &model.ProjectListing{
				Name:    repo.Name,
				Notes:   string(notes),
				Updated: repo.Updated,
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	projects := make(model.ProjectListings, 0, len(repos))
	for _, listing := range listed {
		if listing != nil {
			projects = append(projects, *listing)
		}
	}
	sort.Sort(projects)
	c.l.Debug("projects listed",
		zap.String("owner", owner),
		zap.Int("repos", len(repos)),
		zap.Int("projects", len(projects)),
	)
	return projects, nil
}
