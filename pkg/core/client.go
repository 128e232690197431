// Package core implements the save and synchronization engine of projects persisted
// in a git-style remote repository service.
package core

import (
	"context"
	"sync"

	"github.com/oneconcern/snapgit/pkg/core/status"
	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/remote"
	"go.uber.org/zap"
)

// Client saves, retrieves and lists the projects of an identity.
//
// A Client is safe for concurrent use.
type Client struct {
	Settings
	svc remote.Service

	mu    sync.RWMutex
	owner string
}

// New client for some remote service. The client needs to log in before use.
func New(svc remote.Service, opts ...Option) *Client {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	return &Client{
		Settings: settings,
		svc:      svc,
	}
}

// Login attaches an identity to the client.
//
// With validate, the credentials of the remote service are checked by listing the repositories
// of the identity. The client remains logged out when this check fails.
func (c *Client) Login(ctx context.Context, identity string, validate bool) error {
	if identity == "" {
		return status.ErrNotLoggedIn.Wrap(errors.New("empty identity"))
	}
	if validate {
		if _, err := c.svc.ListOwnedRepos(ctx); err != nil {
			c.l.Warn("login failed", zap.String("owner", identity), zap.Error(err))
			return c.remoteErr(err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = identity
	c.l.Info("logged in", zap.String("owner", identity), zap.String("service", c.svc.String()))
	return nil
}

// Logout detaches the identity from the client
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner != "" {
		c.l.Info("logged out", zap.String("owner", c.owner))
	}
	c.owner = ""
}

// Owner returns the identity of the client, if logged in
func (c *Client) Owner() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner, c.owner != ""
}

func (c *Client) requireLogin() (string, error) {
	owner, ok := c.Owner()
	if !ok {
		return "", status.ErrNotLoggedIn
	}
	return owner, nil
}

// remoteErr labels errors with the remote service they come from
func (c *Client) remoteErr(err error) error {
	return errors.Sourced(c.svc.String(), err)
}
