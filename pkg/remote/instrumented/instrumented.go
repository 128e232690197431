// Package instrumented decorates a remote.Service with logging and prometheus metrics.
package instrumented

import (
	"context"
	"time"

	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Metrics collected about the calls to a remote service
type Metrics struct {
	Calls    *prometheus.CounterVec
	Errors   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics builds the remote call metrics and registers them with reg, when not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapgit",
			Subsystem: "remote",
			Name:      "calls_total",
			Help:      "Number of calls to the remote repository service",
		}, []string{"service", "op"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapgit",
			Subsystem: "remote",
			Name:      "errors_total",
			Help:      "Number of failed calls to the remote repository service",
		}, []string{"service", "op"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snapgit",
			Subsystem: "remote",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls to the remote repository service",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "op"}),
	}
}

// Instrument wraps a service. A nil logger disables logging, nil metrics disable metrics.
func Instrument(svc remote.Service, l *zap.Logger, m *Metrics) remote.Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &instrumentedService{
		svc:     svc,
		l:       l.With(zap.String("service", svc.String())),
		metrics: m,
	}
}

type instrumentedService struct {
	svc     remote.Service
	l       *zap.Logger
	metrics *Metrics
}

func (i *instrumentedService) observe(op string, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	if i.metrics != nil {
		i.metrics.Calls.WithLabelValues(i.svc.String(), op).Inc()
		i.metrics.Duration.WithLabelValues(i.svc.String(), op).Observe(elapsed.Seconds())
		if err != nil {
			i.metrics.Errors.WithLabelValues(i.svc.String(), op).Inc()
		}
	}
	fields = append(fields, zap.String("op", op), zap.Duration("duration", elapsed))
	if err != nil {
		i.l.Debug("remote call failed", append(fields, zap.Error(err))...)
		return
	}
	i.l.Debug("remote call", fields...)
}

func repoFields(owner, repo string) []zap.Field {
	return []zap.Field{zap.String("owner", owner), zap.String("repo", repo)}
}

func (i *instrumentedService) String() string {
	return i.svc.String()
}

func (i *instrumentedService) FetchFileContent(ctx context.Context, owner, repo, path string) (content []byte, err error) {
	defer func(t0 time.Time) {
		i.observe("FetchFileContent", t0, err, append(repoFields(owner, repo), zap.String("path", path))...)
	}(time.Now())
	return i.svc.FetchFileContent(ctx, owner, repo, path)
}

func (i *instrumentedService) FetchCommitHistory(ctx context.Context, owner, repo string) (commits model.Commits, err error) {
	defer func(t0 time.Time) {
		i.observe("FetchCommitHistory", t0, err, append(repoFields(owner, repo), zap.Int("commits", len(commits)))...)
	}(time.Now())
	return i.svc.FetchCommitHistory(ctx, owner, repo)
}

func (i *instrumentedService) FetchCommit(ctx context.Context, owner, repo, sha string) (commit model.Commit, err error) {
	defer func(t0 time.Time) {
		i.observe("FetchCommit", t0, err, append(repoFields(owner, repo), zap.String("sha", sha))...)
	}(time.Now())
	return i.svc.FetchCommit(ctx, owner, repo, sha)
}

func (i *instrumentedService) CreateBlob(ctx context.Context, owner, repo, content, encoding string) (sha string, err error) {
	defer func(t0 time.Time) {
		i.observe("CreateBlob", t0, err, append(repoFields(owner, repo), zap.Int("size", len(content)), zap.String("sha", sha))...)
	}(time.Now())
	return i.svc.CreateBlob(ctx, owner, repo, content, encoding)
}

func (i *instrumentedService) CreateTree(ctx context.Context, owner, repo string, entries []model.TreeEntry, baseTree string) (sha string, err error) {
	defer func(t0 time.Time) {
		i.observe("CreateTree", t0, err, append(repoFields(owner, repo), zap.String("base", baseTree), zap.String("sha", sha))...)
	}(time.Now())
	return i.svc.CreateTree(ctx, owner, repo, entries, baseTree)
}

func (i *instrumentedService) CreateCommit(ctx context.Context, owner, repo, message, tree string, parents []string) (sha string, err error) {
	defer func(t0 time.Time) {
		i.observe("CreateCommit", t0, err, append(repoFields(owner, repo), zap.Strings("parents", parents), zap.String("sha", sha))...)
	}(time.Now())
	return i.svc.CreateCommit(ctx, owner, repo, message, tree, parents)
}

func (i *instrumentedService) UpdateRef(ctx context.Context, owner, repo, ref, sha string) (err error) {
	defer func(t0 time.Time) {
		i.observe("UpdateRef", t0, err, append(repoFields(owner, repo), zap.String("ref", ref), zap.String("sha", sha))...)
	}(time.Now())
	return i.svc.UpdateRef(ctx, owner, repo, ref, sha)
}

func (i *instrumentedService) CompareCommits(ctx context.Context, owner, repo, base, head string) (diffs []model.FileDiff, err error) {
	defer func(t0 time.Time) {
		i.observe("CompareCommits", t0, err, append(repoFields(owner, repo), zap.String("base", base), zap.String("head", head), zap.Int("files", len(diffs)))...)
	}(time.Now())
	return i.svc.CompareCommits(ctx, owner, repo, base, head)
}

func (i *instrumentedService) ListOwnedRepos(ctx context.Context) (repos model.RepositoryRecords, err error) {
	defer func(t0 time.Time) {
		i.observe("ListOwnedRepos", t0, err, zap.Int("repos", len(repos)))
	}(time.Now())
	return i.svc.ListOwnedRepos(ctx)
}

func (i *instrumentedService) CreateRepo(ctx context.Context, name, description string, flags model.CreateRepoFlags) (record model.RepositoryRecord, err error) {
	defer func(t0 time.Time) {
		i.observe("CreateRepo", t0, err, zap.String("repo", name))
	}(time.Now())
	return i.svc.CreateRepo(ctx, name, description, flags)
}
