// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the local file system (or any afero.Fs, such as
// an in-memory one) as a backend. It is used by the local remote service to
// persist repository records.
package storage
