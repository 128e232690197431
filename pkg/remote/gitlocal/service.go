// Package gitlocal implements a remote repository service on top of local git repositories.
//
// Git objects are handled by go-git, and kept either in memory or in bare repositories
// laid out on a billy filesystem. Repository records (owner, description, timestamps)
// are kept as yaml in a storage.Store.
package gitlocal

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	gitstorage "github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/oneconcern/snapgit/pkg/remote/status"
	"github.com/oneconcern/snapgit/pkg/storage"
	"github.com/oneconcern/snapgit/pkg/storage/localfs"
	storagestatus "github.com/oneconcern/snapgit/pkg/storage/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultOwner is the identity owning repositories when none is configured
	DefaultOwner = "local"

	label = "local"
)

var _ remote.Service = &Service{}

// Option configures the local service
type Option func(*Service)

// WithOwner sets the identity owning the repositories of this service
func WithOwner(owner string) Option {
	return func(s *Service) {
		if owner != "" {
			s.owner = owner
		}
	}
}

// WithFilesystem keeps git objects in bare repositories on fs. By default, objects are kept in memory.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithRecords sets the store for repository records. By default, records are kept in memory.
func WithRecords(store storage.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.records = store
		}
	}
}

// WithClock sets the clock used to timestamp commits and records
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.l = l
		}
	}
}

// Service is a remote.Service backed by local git repositories.
//
// It is safe for concurrent use: all calls are serialized.
type Service struct {
	owner   string
	fs      billy.Filesystem
	records storage.Store
	clock   func() time.Time
	l       *zap.Logger

	mu    sync.Mutex
	repos map[string]*git.Repository
}

// New local repository service
func New(opts ...Option) *Service {
	s := &Service{
		owner: DefaultOwner,
		clock: time.Now,
		l:     zap.NewNop(),
		repos: make(map[string]*git.Repository),
	}
	for _, apply := range opts {
		apply(s)
	}
	if s.records == nil {
		s.records = localfs.New(afero.NewMemMapFs())
	}
	return s
}

func (s *Service) String() string {
	return label
}

// Owner of the repositories of this service
func (s *Service) Owner() string {
	return s.owner
}

func repoKey(owner, name string) string {
	return owner + "/" + name
}

func (s *Service) newStorer(owner, name string) (gitstorage.Storer, error) {
	if s.fs == nil {
		return memory.NewStorage(), nil
	}
	dir := path.Join(owner, name+".git")
	if err := s.fs.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create repository directory %q: %w", dir, err)
	}
	root, err := s.fs.Chroot(dir)
	if err != nil {
		return nil, err
	}
	return filesystem.NewStorage(root, cache.NewObjectLRUDefault()), nil
}

// getRecord reads the record of a repository, or returns status.ErrNotFound
func (s *Service) getRecord(ctx context.Context, owner, name string) (model.RepositoryRecord, error) {
	var record model.RepositoryRecord
	b, err := storage.ReadAll(ctx, s.records, model.GetArchivePathToRepoRecord(owner, name))
	if err != nil {
		if err == storagestatus.ErrNotExists {
			return record, status.ErrNotFound
		}
		return record, err
	}
	if err = yaml.Unmarshal(b, &record); err != nil {
		return record, fmt.Errorf("invalid repository record for %s: %w", repoKey(owner, name), err)
	}
	return record, nil
}

// open returns the git repository of a known record. The caller holds the lock.
func (s *Service) open(ctx context.Context, owner, name string) (*git.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := repoKey(owner, name)
	if r, ok := s.repos[key]; ok {
		return r, nil
	}
	if _, err := s.getRecord(ctx, owner, name); err != nil {
		return nil, err
	}
	st, err := s.newStorer(owner, name)
	if err != nil {
		return nil, err
	}
	r, err := git.Open(st, nil)
	if err == git.ErrRepositoryNotExists {
		r, err = git.Init(st, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", key, err)
	}
	s.repos[key] = r
	return r, nil
}

func parseHash(sha string) (plumbing.Hash, error) {
	if len(sha) != 40 {
		return plumbing.ZeroHash, status.ErrInvalidObject.Wrap(fmt.Errorf("invalid object id %q", sha))
	}
	if _, err := hex.DecodeString(sha); err != nil {
		return plumbing.ZeroHash, status.ErrInvalidObject.Wrap(fmt.Errorf("invalid object id %q", sha))
	}
	return plumbing.NewHash(sha), nil
}

func branchRefName(ref string) plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/" + ref)
}

// head resolves the commit at the tip of the default branch
func head(r *git.Repository) (plumbing.Hash, error) {
	ref, err := r.Reference(branchRefName(remote.BranchRef), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return plumbing.ZeroHash, status.ErrNotFound
		}
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

func (s *Service) touch(ctx context.Context, owner, name string) error {
	record, err := s.getRecord(ctx, owner, name)
	if err != nil {
		return err
	}
	record.Updated = s.clock().UTC()
	return s.putRecord(ctx, record, storage.OverWrite)
}

func (s *Service) putRecord(ctx context.Context, record model.RepositoryRecord, exclusive bool) error {
	b, err := yaml.Marshal(record)
	if err != nil {
		return err
	}
	err = s.records.Put(ctx, model.GetArchivePathToRepoRecord(record.Owner, record.Name), bytes.NewReader(b), exclusive)
	if err == storagestatus.ErrExists {
		return status.ErrExists
	}
	return err
}
