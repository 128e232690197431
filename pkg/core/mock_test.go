package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote/mockremote"
)

const (
	testOwner = "alice"
	testHead  = "head"
)

// goodMock simulates a remote where all calls succeed, with ids generated from a sequence
func goodMock(repos model.RepositoryRecords) *mockremote.ServiceMock {
	var seq int64
	next := func(prefix string) string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&seq, 1))
	}
	return &mockremote.ServiceMock{
		ListOwnedReposFunc: func(context.Context) (model.RepositoryRecords, error) {
			return repos, nil
		},
		CreateRepoFunc: func(_ context.Context, name, description string, _ model.CreateRepoFlags) (model.RepositoryRecord, error) {
			return model.RepositoryRecord{Owner: testOwner, Name: name, Description: description}, nil
		},
		FetchCommitHistoryFunc: func(context.Context, string, string) (model.Commits, error) {
			return model.Commits{{SHA: testHead, TreeSHA: testHead + "-tree"}}, nil
		},
		FetchCommitFunc: func(_ context.Context, _, _, sha string) (model.Commit, error) {
			return model.Commit{SHA: sha, TreeSHA: sha + "-tree"}, nil
		},
		CreateBlobFunc: func(context.Context, string, string, string, string) (string, error) {
			return next("blob"), nil
		},
		CreateTreeFunc: func(context.Context, string, string, []model.TreeEntry, string) (string, error) {
			return next("tree"), nil
		},
		CreateCommitFunc: func(context.Context, string, string, string, string, []string) (string, error) {
			return next("commit"), nil
		},
		CompareCommitsFunc: func(context.Context, string, string, string, string) ([]model.FileDiff, error) {
			return nil, nil
		},
		UpdateRefFunc: func(context.Context, string, string, string, string) error {
			return nil
		},
	}
}

func projectRepo(name string) model.RepositoryRecord {
	return model.RepositoryRecord{
		Owner:       testOwner,
		Name:        name,
		Description: model.ProjectDescription(model.DefaultMarker, model.DefaultSite, testOwner, name),
	}
}

func otherRepo(name string) model.RepositoryRecord {
	return model.RepositoryRecord{
		Owner:       testOwner,
		Name:        name,
		Description: "some other repository",
	}
}

func validDocument(program, notes string) model.Document {
	doc := model.ProjectDocument(program, notes)
	doc.Validated = true
	return doc
}

func methods(m *mockremote.ServiceMock) []string {
	calls := m.Calls()
	res := make([]string, 0, len(calls))
	for _, c := range calls {
		res = append(res, c.Method)
	}
	return res
}
