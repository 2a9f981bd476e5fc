// Copyright © 2018 One Concern

// Package vfs defines the filesystem capability shared by the project engine.
//
// A FS is a tree of directories and binary files addressed by '/'-separated paths,
// relative to the root of a project store. The empty path designates the root.
//
// Implementations live in subpackages: aferofs wraps any afero.Fs (in-memory for
// tests, a local directory otherwise) and bdgr persists a project in a badger database.
package vfs
