package core

import (
	"context"

	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/oneconcern/snapgit/pkg/patch"
	"go.uber.org/zap"
)

// FileReconciliation reports how the changes found on the remote were merged into a file
type FileReconciliation struct {
	Path string
	patch.Result
}

// reconcile merges into files the changes between base and intermediate.
//
// Only files part of the document are patched: other changed paths already live in the intermediate
// tree, which the final commit builds upon. Patches are applied on a best effort basis, so that
// hunks which cannot be applied are dropped.
func (c *Client) reconcile(ctx context.Context, l *zap.Logger, owner, repo, base, intermediate string, files []model.File) ([]model.File, []FileReconciliation, error) {
	diffs, err := c.svc.CompareCommits(ctx, owner, repo, base, intermediate)
	if err != nil {
		return nil, nil, c.remoteErr(err)
	}

	byPath := make(map[string]model.FileDiff, len(diffs))
	for _, diff := range diffs {
		byPath[diff.Path] = diff
	}

	reconciled := make([]model.File, len(files))
	copy(reconciled, files)
	results := make([]FileReconciliation, 0, len(files))

	for i, file := range files {
		diff, ok := byPath[file.Path]
		if !ok || diff.Patch == "" {
			continue
		}
		set, err := patch.Parse(file.Path, diff.Patch)
		if err != nil {
			l.Debug("ignoring unreadable patch", zap.String("path", file.Path), zap.Error(err))
			continue
		}

		patched, result := set.Apply(file.Content)
		reconciled[i].Content = patched
		results = append(results, FileReconciliation{Path: file.Path, Result: result})
		if result.Failed > 0 {
			l.Debug("some changes could not be merged",
				zap.String("path", file.Path),
				zap.Int("failed", result.Failed),
			)
		}
		l.Debug("file reconciled",
			zap.String("path", file.Path),
			zap.Int("applied", result.Applied),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
	return reconciled, results, nil
}
