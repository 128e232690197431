package instrumented

import (
	"context"
	"testing"

	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote/mockremote"
	"github.com/oneconcern/snapgit/pkg/remote/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInstrument(t *testing.T) {
	mock := &mockremote.ServiceMock{
		Label: "GitHub",
		CreateBlobFunc: func(_ context.Context, _, _, _, _ string) (string, error) {
			return "blob1", nil
		},
		FetchCommitFunc: func(_ context.Context, _, _, _ string) (model.Commit, error) {
			return model.Commit{}, status.ErrNotFound
		},
	}
	core, logs := observer.New(zap.DebugLevel)
	metrics := NewMetrics(prometheus.NewRegistry())
	svc := Instrument(mock, zap.New(core), metrics)

	assert.Equal(t, "GitHub", svc.String())

	sha, err := svc.CreateBlob(context.Background(), "fred", "demo", "content", model.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "blob1", sha)

	_, err = svc.CreateBlob(context.Background(), "fred", "demo", "other", model.EncodingUTF8)
	require.NoError(t, err)

	_, err = svc.FetchCommit(context.Background(), "fred", "demo", "abc")
	require.Error(t, err)
	assert.Equal(t, status.ErrNotFound, err, "errors must pass through unchanged")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Calls.WithLabelValues("GitHub", "CreateBlob")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Errors.WithLabelValues("GitHub", "CreateBlob")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Errors.WithLabelValues("GitHub", "FetchCommit")))

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("remote call failed").Len())
	assert.Len(t, mock.CallsTo("CreateBlob"), 2)
}

func TestInstrumentWithoutMetrics(t *testing.T) {
	mock := &mockremote.ServiceMock{
		ListOwnedReposFunc: func(_ context.Context) (model.RepositoryRecords, error) {
			return model.RepositoryRecords{{Name: "demo"}}, nil
		},
	}
	svc := Instrument(mock, nil, nil)
	repos, err := svc.ListOwnedRepos(context.Background())
	require.NoError(t, err)
	assert.Len(t, repos, 1)
}
