// Package mockremote provides a mock for the remote.Service interface.
//
// Unset functions panic when called, so that tests fail loudly on unexpected remote calls.
package mockremote

import (
	"context"
	"sync"

	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote"
)

// Ensure, that ServiceMock does implement remote.Service.
var _ remote.Service = &ServiceMock{}

// Call records a single call to the mock
type Call struct {
	Method string
	Owner  string
	Repo   string
	Args   []interface{}
}

// writeMethods are the calls that create objects or move references on the remote
var writeMethods = map[string]struct{}{
	"CreateBlob":   {},
	"CreateTree":   {},
	"CreateCommit": {},
	"UpdateRef":    {},
	"CreateRepo":   {},
}

// ServiceMock is a mock implementation of remote.Service.
type ServiceMock struct {
	Label string

	FetchFileContentFunc   func(ctx context.Context, owner, repo, path string) ([]byte, error)
	FetchCommitHistoryFunc func(ctx context.Context, owner, repo string) (model.Commits, error)
	FetchCommitFunc        func(ctx context.Context, owner, repo, sha string) (model.Commit, error)
	CreateBlobFunc         func(ctx context.Context, owner, repo, content, encoding string) (string, error)
	CreateTreeFunc         func(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (string, error)
	CreateCommitFunc       func(ctx context.Context, owner, repo, message, tree string, parents []string) (string, error)
	UpdateRefFunc          func(ctx context.Context, owner, repo, ref, sha string) error
	CompareCommitsFunc     func(ctx context.Context, owner, repo, base, head string) ([]model.FileDiff, error)
	ListOwnedReposFunc     func(ctx context.Context) (model.RepositoryRecords, error)
	CreateRepoFunc         func(ctx context.Context, name, description string, flags model.CreateRepoFlags) (model.RepositoryRecord, error)

	mu    sync.Mutex
	calls []Call
}

func (m *ServiceMock) record(method, owner, repo string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Owner: owner, Repo: repo, Args: args})
}

// Calls returns all recorded calls, in order
func (m *ServiceMock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Call, len(m.calls))
	copy(res, m.calls)
	return res
}

// CallsTo returns the recorded calls to some method
func (m *ServiceMock) CallsTo(method string) []Call {
	var res []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			res = append(res, c)
		}
	}
	return res
}

// WriteCalls counts the calls which create objects or move references on the remote
func (m *ServiceMock) WriteCalls() int {
	var n int
	for _, c := range m.Calls() {
		if _, ok := writeMethods[c.Method]; ok {
			n++
		}
	}
	return n
}

func (m *ServiceMock) String() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

// FetchFileContent calls FetchFileContentFunc.
func (m *ServiceMock) FetchFileContent(ctx context.Context, owner, repo, path string) ([]byte, error) {
	if m.FetchFileContentFunc == nil {
		panic("ServiceMock.FetchFileContentFunc: method is nil but Service.FetchFileContent was just called")
	}
	m.record("FetchFileContent", owner, repo, path)
	return m.FetchFileContentFunc(ctx, owner, repo, path)
}

// FetchCommitHistory calls FetchCommitHistoryFunc.
func (m *ServiceMock) FetchCommitHistory(ctx context.Context, owner, repo string) (model.Commits, error) {
	if m.FetchCommitHistoryFunc == nil {
		panic("ServiceMock.FetchCommitHistoryFunc: method is nil but Service.FetchCommitHistory was just called")
	}
	m.record("FetchCommitHistory", owner, repo)
	return m.FetchCommitHistoryFunc(ctx, owner, repo)
}

// FetchCommit calls FetchCommitFunc.
func (m *ServiceMock) FetchCommit(ctx context.Context, owner, repo, sha string) (model.Commit, error) {
	if m.FetchCommitFunc == nil {
		panic("ServiceMock.FetchCommitFunc: method is nil but Service.FetchCommit was just called")
	}
	m.record("FetchCommit", owner, repo, sha)
	return m.FetchCommitFunc(ctx, owner, repo, sha)
}

// CreateBlob calls CreateBlobFunc.
func (m *ServiceMock) CreateBlob(ctx context.Context, owner, repo, content, encoding string) (string, error) {
	if m.CreateBlobFunc == nil {
		panic("ServiceMock.CreateBlobFunc: method is nil but Service.CreateBlob was just called")
	}
	m.record("CreateBlob", owner, repo, content, encoding)
	return m.CreateBlobFunc(ctx, owner, repo, content, encoding)
}

// CreateTree calls CreateTreeFunc.
func (m *ServiceMock) CreateTree(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (string, error) {
	if m.CreateTreeFunc == nil {
		panic("ServiceMock.CreateTreeFunc: method is nil but Service.CreateTree was just called")
	}
	m.record("CreateTree", owner, repo, entries, baseTree)
	return m.CreateTreeFunc(ctx, owner, repo, entries, baseTree)
}

// CreateCommit calls CreateCommitFunc.
func (m *ServiceMock) CreateCommit(ctx context.Context, owner, repo, message, tree string, parents []string) (string, error) {
	if m.CreateCommitFunc == nil {
		panic("ServiceMock.CreateCommitFunc: method is nil but Service.CreateCommit was just called")
	}
	m.record("CreateCommit", owner, repo, message, tree, parents)
	return m.CreateCommitFunc(ctx, owner, repo, message, tree, parents)
}

// UpdateRef calls UpdateRefFunc.
func (m *ServiceMock) UpdateRef(ctx context.Context, owner, repo, ref, sha string) error {
	if m.UpdateRefFunc == nil {
		panic("ServiceMock.UpdateRefFunc: method is nil but Service.UpdateRef was just called")
	}
	m.record("UpdateRef", owner, repo, ref, sha)
	return m.UpdateRefFunc(ctx, owner, repo, ref, sha)
}

// CompareCommits calls CompareCommitsFunc.
func (m *ServiceMock) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]model.FileDiff, error) {
	if m.CompareCommitsFunc == nil {
		panic("ServiceMock.CompareCommitsFunc: method is nil but Service.CompareCommits was just called")
	}
	m.record("CompareCommits", owner, repo, base, head)
	return m.CompareCommitsFunc(ctx, owner, repo, base, head)
}

// ListOwnedRepos calls ListOwnedReposFunc.
func (m *ServiceMock) ListOwnedRepos(ctx context.Context) (model.RepositoryRecords, error) {
	if m.ListOwnedReposFunc == nil {
		panic("ServiceMock.ListOwnedReposFunc: method is nil but Service.ListOwnedRepos was just called")
	}
	m.record("ListOwnedRepos", "", "")
	return m.ListOwnedReposFunc(ctx)
}

// CreateRepo calls CreateRepoFunc.
func (m *ServiceMock) CreateRepo(ctx context.Context, name, description string, flags model.CreateRepoFlags) (model.RepositoryRecord, error) {
	if m.CreateRepoFunc == nil {
		panic("ServiceMock.CreateRepoFunc: method is nil but Service.CreateRepo was just called")
	}
	m.record("CreateRepo", "", name, description, flags)
	return m.CreateRepoFunc(ctx, name, description, flags)
}
