package gitlocal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/oneconcern/snapgit/pkg/remote/status"
	"github.com/oneconcern/snapgit/pkg/storage"
	"go.uber.org/zap"
)

const (
	recordsPageSize = 1000
	initialMessage  = "Initial commit"
	licenseFile     = "LICENSE"
)

const mitLicense = `MIT License

Copyright (c) %d %s

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

// ListOwnedRepos lists the repositories of the owner of this service, by name
func (s *Service) ListOwnedRepos(ctx context.Context) (model.RepositoryRecords, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := model.GetArchivePathPrefixToRepos(s.owner)
	records := make(model.RepositoryRecords, 0, recordsPageSize)
	var token string
	for {
		keys, next, err := s.records.KeysPrefix(ctx, token, prefix, "", recordsPageSize)
		if err != nil {
			return nil, fmt.Errorf("list repository records: %w", err)
		}
		for _, key := range keys {
			name := strings.TrimSuffix(strings.TrimPrefix(key, prefix), "/repo.yaml")
			if !strings.HasSuffix(key, "/repo.yaml") || strings.Contains(name, "/") {
				continue
			}
			record, err := s.getRecord(ctx, s.owner, name)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		if next == "" {
			break
		}
		token = next
	}
	sort.Sort(records)
	return records, nil
}

// CreateRepo records a new repository for the owner of this service.
//
// With AutoInit, the default branch starts with a commit holding a README, and a LICENSE
// when the license template is "mit".
func (s *Service) CreateRepo(ctx context.Context, name, description string, flags model.CreateRepoFlags) (model.RepositoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.RepositoryRecord{}, err
	}
	if err := model.ValidateRepoName(name); err != nil {
		return model.RepositoryRecord{}, status.ErrInvalidObject.Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock().UTC()
	record := model.RepositoryRecord{
		Owner:         s.owner,
		Name:          name,
		Description:   description,
		DefaultBranch: model.DefaultBranch,
		Created:       now,
		Updated:       now,
	}
	if err := s.putRecord(ctx, record, storage.NoOverWrite); err != nil {
		return model.RepositoryRecord{}, err
	}

	r, err := s.open(ctx, s.owner, name)
	if err == nil && flags.AutoInit {
		err = s.initialCommit(r, record, flags.LicenseTemplate)
	}
	if err != nil {
		delete(s.repos, repoKey(s.owner, name))
		_ = s.records.Delete(ctx, model.GetArchivePathToRepoRecord(s.owner, name))
		return model.RepositoryRecord{}, fmt.Errorf("initialize repository %s: %w", repoKey(s.owner, name), err)
	}

	s.l.Info("repository created",
		zap.String("repo", repoKey(s.owner, name)),
		zap.Bool("auto_init", flags.AutoInit),
	)
	return record, nil
}

func (s *Service) initialCommit(r *git.Repository, record model.RepositoryRecord, license string) error {
	files := []model.File{
		{Path: model.NotesFile, Content: fmt.Sprintf("# %s\n%s\n", record.Name, record.Description)},
	}
	if license == model.DefaultLicense {
		files = append(files, model.File{
			Path:    licenseFile,
			Content: fmt.Sprintf(mitLicense, record.Created.Year(), record.Owner),
		})
	}

	entries := make([]object.TreeEntry, 0, len(files))
	for _, f := range files {
		h, err := storeBlob(r, []byte(f.Content))
		if err != nil {
			return err
		}
		entries = append(entries, object.TreeEntry{Name: f.Path, Mode: filemode.Regular, Hash: h})
	}
	tree, err := storeTree(r, entries)
	if err != nil {
		return err
	}
	sig := s.signature()
	commit, err := storeCommit(r, &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   initialMessage,
		TreeHash:  tree,
	})
	if err != nil {
		return err
	}
	return r.Storer.SetReference(plumbing.NewHashReference(branchRefName(remote.BranchRef), commit))
}
