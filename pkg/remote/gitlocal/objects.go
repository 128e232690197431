package gitlocal

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote/status"
	"go.uber.org/zap"
)

const committer = "snapgit"

func (s *Service) signature() object.Signature {
	return object.Signature{
		Name:  committer,
		Email: s.owner + "@" + label,
		When:  s.clock().UTC(),
	}
}

func toModelCommit(c *object.Commit) model.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return model.Commit{
		SHA:       c.Hash.String(),
		TreeSHA:   c.TreeHash.String(),
		Parents:   parents,
		Message:   c.Message,
		Timestamp: c.Committer.When,
	}
}

func storeBlob(r *git.Repository, content []byte) (plumbing.Hash, error) {
	obj := r.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err = w.Write(content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, err
	}
	if err = w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.Storer.SetEncodedObject(obj)
}

func storeTree(r *git.Repository, entries []object.TreeEntry) (plumbing.Hash, error) {
	sort.Slice(entries, func(i, j int) bool {
		return treeOrder(entries[i]) < treeOrder(entries[j])
	})
	obj := r.Storer.NewEncodedObject()
	tree := &object.Tree{Entries: entries}
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.Storer.SetEncodedObject(obj)
}

// treeOrder sorts directories as if their name ended with a slash
func treeOrder(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

func storeCommit(r *git.Repository, commit *object.Commit) (plumbing.Hash, error) {
	obj := r.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.Storer.SetEncodedObject(obj)
}

func (s *Service) FetchFileContent(ctx context.Context, owner, repo, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	h, err := head(r)
	if err != nil {
		return nil, err
	}
	commit, err := r.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("head commit of %s: %w", repoKey(owner, repo), err)
	}
	file, err := commit.File(path)
	if err != nil {
		if err == object.ErrFileNotFound {
			return nil, status.ErrNotFound
		}
		return nil, err
	}
	content, err := file.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

func (s *Service) FetchCommitHistory(ctx context.Context, owner, repo string) (model.Commits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	h, err := head(r)
	if err == status.ErrNotFound {
		return model.Commits{}, nil
	}
	if err != nil {
		return nil, err
	}
	iter, err := r.Log(&git.LogOptions{From: h})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	commits := make(model.Commits, 0, 10)
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, toModelCommit(c))
		return nil
	})
	return commits, err
}

func (s *Service) FetchCommit(ctx context.Context, owner, repo, sha string) (model.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return model.Commit{}, err
	}
	commit, err := s.commitObject(r, sha)
	if err != nil {
		return model.Commit{}, err
	}
	return toModelCommit(commit), nil
}

func (s *Service) commitObject(r *git.Repository, sha string) (*object.Commit, error) {
	h, err := parseHash(sha)
	if err != nil {
		return nil, err
	}
	commit, err := r.CommitObject(h)
	if err != nil {
		if err == plumbing.ErrObjectNotFound {
			return nil, status.ErrNotFound
		}
		return nil, err
	}
	return commit, nil
}

func (s *Service) CreateBlob(ctx context.Context, owner, repo, content, encoding string) (string, error) {
	var data []byte
	switch encoding {
	case model.EncodingUTF8, "":
		data = []byte(content)
	case model.EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return "", status.ErrInvalidObject.Wrap(err)
		}
		data = decoded
	default:
		return "", status.ErrInvalidObject.Wrap(fmt.Errorf("unsupported encoding %q", encoding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	h, err := storeBlob(r, data)
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

// CreateTree layers entries over the entries of baseTree.
//
// Only top-level paths may be overridden. Entries of the base tree are carried over, including subtrees.
func (s *Service) CreateTree(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return "", err
	}

	byName := make(map[string]object.TreeEntry, len(entries))
	if baseTree != "" {
		h, err := parseHash(baseTree)
		if err != nil {
			return "", err
		}
		base, err := r.TreeObject(h)
		if err != nil {
			if err == plumbing.ErrObjectNotFound {
				return "", status.ErrInvalidObject.Wrap(fmt.Errorf("base tree %s not found", baseTree))
			}
			return "", err
		}
		for _, e := range base.Entries {
			byName[e.Name] = e
		}
	}

	for _, e := range entries {
		if e.Path == "" || strings.Contains(e.Path, "/") {
			return "", status.ErrNotSupported.Wrap(fmt.Errorf("cannot create tree entry for path %q", e.Path))
		}
		if e.Type != model.TypeBlob {
			return "", status.ErrNotSupported.Wrap(fmt.Errorf("cannot create tree entry of type %q", e.Type))
		}
		mode, err := filemode.New(e.Mode)
		if err != nil {
			return "", status.ErrInvalidObject.Wrap(err)
		}
		h, err := parseHash(e.SHA)
		if err != nil {
			return "", err
		}
		if err = r.Storer.HasEncodedObject(h); err != nil {
			return "", status.ErrInvalidObject.Wrap(fmt.Errorf("blob %s for %q: %w", e.SHA, e.Path, err))
		}
		byName[e.Path] = object.TreeEntry{Name: e.Path, Mode: mode, Hash: h}
	}

	merged := make([]object.TreeEntry, 0, len(byName))
	for _, e := range byName {
		merged = append(merged, e)
	}
	h, err := storeTree(r, merged)
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func (s *Service) CreateCommit(ctx context.Context, owner, repo, message, tree string, parents []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return "", err
	}
	treeHash, err := parseHash(tree)
	if err != nil {
		return "", err
	}
	if _, err = r.TreeObject(treeHash); err != nil {
		return "", status.ErrInvalidObject.Wrap(fmt.Errorf("tree %s: %w", tree, err))
	}
	parentHashes := make([]plumbing.Hash, 0, len(parents))
	for _, parent := range parents {
		if _, err = s.commitObject(r, parent); err != nil {
			return "", status.ErrInvalidObject.Wrap(fmt.Errorf("parent %s: %w", parent, err))
		}
		parentHashes = append(parentHashes, plumbing.NewHash(parent))
	}

	sig := s.signature()
	h, err := storeCommit(r, &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parentHashes,
	})
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

// UpdateRef moves a branch to some commit. The previous value of the branch is not checked.
func (s *Service) UpdateRef(ctx context.Context, owner, repo, ref, sha string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.HasPrefix(ref, "heads/") {
		return status.ErrNotSupported.Wrap(fmt.Errorf("cannot update reference %q", ref))
	}
	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return err
	}
	commit, err := s.commitObject(r, sha)
	if err != nil {
		if err == status.ErrNotFound {
			return status.ErrInvalidObject.Wrap(fmt.Errorf("commit %s not found", sha))
		}
		return err
	}
	if err = r.Storer.SetReference(plumbing.NewHashReference(branchRefName(ref), commit.Hash)); err != nil {
		return err
	}
	s.l.Debug("reference updated",
		zap.String("repo", repoKey(owner, repo)),
		zap.String("ref", ref),
		zap.String("commit", sha),
	)
	return s.touch(ctx, owner, repo)
}
