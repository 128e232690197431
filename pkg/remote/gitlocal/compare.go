package gitlocal

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/patch"
)

// CompareCommits renders a unified diff for every file changed between the trees of base and head
func (s *Service) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]model.FileDiff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.open(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	from, err := s.commitObject(r, base)
	if err != nil {
		return nil, err
	}
	to, err := s.commitObject(r, head)
	if err != nil {
		return nil, err
	}
	fromTree, err := from.Tree()
	if err != nil {
		return nil, err
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, err
	}

	diffs := make([]model.FileDiff, 0, len(changes))
	for _, change := range changes {
		diff, err := fileDiff(change)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, diff)
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs, nil
}

func contents(f *object.File) (string, error) {
	if f == nil {
		return "", nil
	}
	return f.Contents()
}

func fileDiff(change *object.Change) (model.FileDiff, error) {
	action, err := change.Action()
	if err != nil {
		return model.FileDiff{}, err
	}
	diff := model.FileDiff{Path: change.To.Name}
	switch action {
	case merkletrie.Insert:
		diff.Status = model.FileAdded
	case merkletrie.Delete:
		diff.Status = model.FileRemoved
		diff.Path = change.From.Name
	default:
		diff.Status = model.FileModified
	}

	fromFile, toFile, err := change.Files()
	if err != nil {
		return model.FileDiff{}, err
	}
	before, err := contents(fromFile)
	if err != nil {
		return model.FileDiff{}, err
	}
	after, err := contents(toFile)
	if err != nil {
		return model.FileDiff{}, err
	}
	diff.Patch = patch.Make(before, after, patch.DefaultContext)
	return diff, nil
}
