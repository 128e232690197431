// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"io/ioutil"
)

// Put flags
const (
	// IfNotPresent only creates the object if it does not exist yet
	IfNotPresent = true
	// NoOverWrite is a synonym for IfNotPresent
	NoOverWrite = IfNotPresent
	// OverWrite replaces the object when it exists
	OverWrite = false
)

// Store implementations know how to write entries to a K/V model.
//
// Typically this is something file system-like.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	// KeysPrefix returns at most count keys starting with prefix, in lexicographic order, starting
	// from the page token. The returned token is empty on the last page.
	KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error)
}

// ReadAll fetches an object and reads it entirely in memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return ioutil.ReadAll(reader)
}
