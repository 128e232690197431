// Package model describes the base objects manipulated by snapgit.
//
// The object model follows the git object model exposed by the remote service:
//
//  Blobs:
//    An immutable, content-addressed payload. Identical content yields the same identifier.
//
//  Trees:
//    An immutable mapping of paths to blobs, built on top of a base tree with some paths overridden.
//
//  Commits:
//    An immutable snapshot: one tree, its parent commits and a message.
//
//  Repositories:
//    A named remote namespace holding objects, with a single movable branch head.
//
// A project is a repository holding a Snap! program (snap.xml) and its notes (README.md),
// tagged as such in its description.
package model
