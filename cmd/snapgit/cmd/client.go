// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/oneconcern/snapgit/pkg/core"
	"github.com/oneconcern/snapgit/pkg/dlogger"
	"github.com/oneconcern/snapgit/pkg/remote"
	"github.com/oneconcern/snapgit/pkg/remote/github"
	"github.com/oneconcern/snapgit/pkg/remote/gitlocal"
	"github.com/oneconcern/snapgit/pkg/remote/instrumented"
	"github.com/oneconcern/snapgit/pkg/storage/localfs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func getLogger() (*zap.Logger, error) {
	return dlogger.GetConsoleLogger(config.LogLevel)
}

// newService builds the remote service configured for the backend
func newService(l *zap.Logger) (remote.Service, string, error) {
	var (
		svc   remote.Service
		owner = config.Owner
	)
	switch config.Backend {
	case backendLocal, "":
		root := config.Local.Root
		if root == "" {
			root = defaultLocalRoot()
		}
		local := gitlocal.New(
			gitlocal.WithOwner(owner),
			gitlocal.WithFilesystem(osfs.New(filepath.Join(root, "repos"))),
			gitlocal.WithRecords(localfs.New(afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(root, "records")))),
			gitlocal.WithLogger(l),
		)
		owner = local.Owner()
		svc = local
	case backendGitHub:
		if config.Token == "" {
			return nil, "", fmt.Errorf("a token is required to reach GitHub")
		}
		svc = github.New(
			github.WithURL(config.GitHub.URL),
			github.WithToken(config.Token),
			github.WithLogger(l),
		)
	default:
		return nil, "", fmt.Errorf("unknown backend %q", config.Backend)
	}
	return instrumented.Instrument(svc, l, remoteMetrics), owner, nil
}

// newClient builds a core client logged in with the configured identity
func newClient(ctx context.Context, validate bool, opts ...core.Option) (*core.Client, error) {
	l, err := getLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to set log level: %w", err)
	}
	svc, owner, err := newService(l)
	if err != nil {
		return nil, err
	}
	client := core.New(svc, append([]core.Option{
		core.WithLogger(l),
		core.WithMarker(config.Marker),
		core.WithSite(config.Site),
		core.WithConcurrency(config.Concurrency),
	}, opts...)...)
	if err = client.Login(ctx, owner, validate); err != nil {
		return nil, err
	}
	return client, nil
}
