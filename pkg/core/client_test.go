package core

import (
	"context"
	"testing"

	"github.com/oneconcern/snapgit/pkg/core/status"
	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/remote/mockremote"
	remotestatus "github.com/oneconcern/snapgit/pkg/remote/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("without validation", func(t *testing.T) {
		m := &mockremote.ServiceMock{}
		c := New(m)
		_, ok := c.Owner()
		assert.False(t, ok)

		require.NoError(t, c.Login(ctx, testOwner, false))
		owner, ok := c.Owner()
		assert.True(t, ok)
		assert.Equal(t, testOwner, owner)
		assert.Empty(t, m.Calls())

		c.Logout()
		_, ok = c.Owner()
		assert.False(t, ok)
	})

	t.Run("with validation", func(t *testing.T) {
		m := goodMock(nil)
		c := New(m)
		require.NoError(t, c.Login(ctx, testOwner, true))
		assert.Len(t, m.CallsTo("ListOwnedRepos"), 1)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		m := &mockremote.ServiceMock{
			Label: "GitHub",
			ListOwnedReposFunc: func(context.Context) (model.RepositoryRecords, error) {
				return nil, remotestatus.ErrUnauthorized
			},
		}
		c := New(m)
		err := c.Login(ctx, testOwner, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, remotestatus.ErrUnauthorized))
		source, ok := errors.SourceOf(err)
		assert.True(t, ok)
		assert.Equal(t, "GitHub", source)
		assert.Equal(t, "GitHub: unauthorized", err.Error())

		_, ok = c.Owner()
		assert.False(t, ok)
	})

	t.Run("empty identity", func(t *testing.T) {
		c := New(&mockremote.ServiceMock{})
		assert.True(t, errors.Is(c.Login(ctx, "", false), status.ErrNotLoggedIn))
	})
}

func TestLoggedOut(t *testing.T) {
	ctx := context.Background()
	m := &mockremote.ServiceMock{}
	c := New(m)

	_, err := c.ListProjects(ctx)
	assert.True(t, errors.Is(err, status.ErrNotLoggedIn))
	_, err = c.GetProject(ctx, testOwner, "demo")
	assert.True(t, errors.Is(err, status.ErrNotLoggedIn))
	_, err = c.SaveProject(ctx, SaveRequest{Name: "demo", Document: validDocument("<project/>", "")})
	assert.True(t, errors.Is(err, status.ErrNotLoggedIn))

	assert.Empty(t, m.Calls())
}
