package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote/status"
)

type sha struct {
	SHA string `json:"sha"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type signature struct {
	Date time.Time `json:"date"`
}

type gitCommit struct {
	SHA       string    `json:"sha"`
	Message   string    `json:"message"`
	Tree      sha       `json:"tree"`
	Parents   []sha     `json:"parents"`
	Committer signature `json:"committer"`
}

func (c gitCommit) toModel() model.Commit {
	parents := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		parents = append(parents, p.SHA)
	}
	return model.Commit{
		SHA:       c.SHA,
		TreeSHA:   c.Tree.SHA,
		Parents:   parents,
		Message:   c.Message,
		Timestamp: c.Committer.Date,
	}
}

// repoCommit is an entry of the commits listing, which nests the git commit
type repoCommit struct {
	SHA     string    `json:"sha"`
	Commit  gitCommit `json:"commit"`
	Parents []sha     `json:"parents"`
}

type blobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type treeRequest struct {
	Tree     []model.TreeEntry `json:"tree"`
	BaseTree string            `json:"base_tree,omitempty"`
}

type commitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type refRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type compareResponse struct {
	Files []model.FileDiff `json:"files"`
}

type repository struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Description   string    `json:"description"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r repository) toModel() model.RepositoryRecord {
	return model.RepositoryRecord{
		Owner:         r.Owner.Login,
		Name:          r.Name,
		Description:   r.Description,
		DefaultBranch: r.DefaultBranch,
		Created:       r.CreatedAt,
		Updated:       r.UpdatedAt,
	}
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	model.CreateRepoFlags
}

func (s *Service) FetchFileContent(ctx context.Context, owner, repo, path string) ([]byte, error) {
	var resp contentResponse
	segments := strings.Split(path, "/")
	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}
	if err := s.do(ctx, http.MethodGet, repoPath(owner, repo, append([]string{"contents"}, segments...)...), nil, nil, &resp); err != nil {
		if errors.Is(err, errConflict) {
			return nil, status.ErrNotFound.Wrap(err)
		}
		return nil, err
	}
	switch resp.Encoding {
	case model.EncodingBase64:
		// content is split over several lines
		content, err := base64.StdEncoding.DecodeString(strings.Replace(resp.Content, "\n", "", -1))
		if err != nil {
			return nil, status.ErrRemoteAPI.Wrap(fmt.Errorf("decoding content of %q: %w", path, err))
		}
		return content, nil
	case "", model.EncodingUTF8:
		return []byte(resp.Content), nil
	default:
		return nil, status.ErrNotSupported.Wrap(fmt.Errorf("content of %q is encoded as %q", path, resp.Encoding))
	}
}

// FetchCommitHistory returns the first page of commits of the default branch
func (s *Service) FetchCommitHistory(ctx context.Context, owner, repo string) (model.Commits, error) {
	var resp []repoCommit
	query := url.Values{"per_page": []string{strconv.Itoa(pageSize)}}
	if err := s.do(ctx, http.MethodGet, repoPath(owner, repo, "commits"), query, nil, &resp); err != nil {
		if errors.Is(err, errConflict) {
			// empty repository
			return model.Commits{}, nil
		}
		return nil, err
	}
	commits := make(model.Commits, 0, len(resp))
	for _, c := range resp {
		commit := c.Commit
		commit.SHA = c.SHA
		if len(commit.Parents) == 0 {
			commit.Parents = c.Parents
		}
		commits = append(commits, commit.toModel())
	}
	return commits, nil
}

func (s *Service) FetchCommit(ctx context.Context, owner, repo, commitSHA string) (model.Commit, error) {
	var resp gitCommit
	if err := s.do(ctx, http.MethodGet, repoPath(owner, repo, "git", "commits", commitSHA), nil, nil, &resp); err != nil {
		return model.Commit{}, err
	}
	return resp.toModel(), nil
}

func (s *Service) CreateBlob(ctx context.Context, owner, repo, content, encoding string) (string, error) {
	var resp sha
	if err := s.do(ctx, http.MethodPost, repoPath(owner, repo, "git", "blobs"), nil, blobRequest{Content: content, Encoding: encoding}, &resp); err != nil {
		return "", err
	}
	return resp.SHA, nil
}

func (s *Service) CreateTree(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (string, error) {
	var resp sha
	if entries == nil {
		entries = []model.TreeEntry{}
	}
	if err := s.do(ctx, http.MethodPost, repoPath(owner, repo, "git", "trees"), nil, treeRequest{Tree: entries, BaseTree: baseTree}, &resp); err != nil {
		return "", err
	}
	return resp.SHA, nil
}

func (s *Service) CreateCommit(ctx context.Context, owner, repo, message, tree string, parents []string) (string, error) {
	var resp sha
	if parents == nil {
		parents = []string{}
	}
	req := commitRequest{Message: message, Tree: tree, Parents: parents}
	if err := s.do(ctx, http.MethodPost, repoPath(owner, repo, "git", "commits"), nil, req, &resp); err != nil {
		return "", err
	}
	return resp.SHA, nil
}

// UpdateRef forces a reference to some commit
func (s *Service) UpdateRef(ctx context.Context, owner, repo, ref, commitSHA string) error {
	return s.do(ctx, http.MethodPatch, repoPath(owner, repo, "git", "refs", ref), nil, refRequest{SHA: commitSHA, Force: true}, nil)
}

func (s *Service) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]model.FileDiff, error) {
	var resp compareResponse
	if err := s.do(ctx, http.MethodGet, repoPath(owner, repo, "compare", base+"..."+head), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// ListOwnedRepos pages through the repositories owned by the authenticated user
func (s *Service) ListOwnedRepos(ctx context.Context) (model.RepositoryRecords, error) {
	records := make(model.RepositoryRecords, 0, pageSize)
	for page := 1; ; page++ {
		var resp []repository
		query := url.Values{
			"type":     []string{"owner"},
			"per_page": []string{strconv.Itoa(pageSize)},
			"page":     []string{strconv.Itoa(page)},
		}
		if err := s.do(ctx, http.MethodGet, "/user/repos", query, nil, &resp); err != nil {
			return nil, err
		}
		for _, r := range resp {
			records = append(records, r.toModel())
		}
		if len(resp) < pageSize {
			break
		}
	}
	sort.Sort(records)
	return records, nil
}

func (s *Service) CreateRepo(ctx context.Context, name, description string, flags model.CreateRepoFlags) (model.RepositoryRecord, error) {
	var resp repository
	req := createRepoRequest{Name: name, Description: description, CreateRepoFlags: flags}
	if err := s.do(ctx, http.MethodPost, "/user/repos", nil, req, &resp); err != nil {
		if errors.Is(err, status.ErrInvalidObject) && strings.Contains(err.Error(), "already exists") {
			return model.RepositoryRecord{}, status.ErrExists.Wrap(err)
		}
		return model.RepositoryRecord{}, err
	}
	return resp.toModel(), nil
}
