// Package patch handles the per-file unified diffs exchanged with the remote service.
//
// A unified diff text is parsed into a PatchSet of line hunks. A PatchSet is applied
// on some text on a best effort basis: hunks found already applied are skipped, the
// others are located with diff-match-patch fuzzy matching, and hunks which cannot be
// located are reported as failed without raising an error.
//
// Make renders the unified diff between two texts, in the format served by GitHub
// for the files of a commit comparison (hunks only, no file header).
package patch
