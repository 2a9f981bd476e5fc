// Copyright © 2018 One Concern

// Package core moves projects between archives and mounted project filesystems.
//
// An import detects, extracts, normalizes and classifies an archive, then
// materializes it into the project's filesystem. An export builds an archive
// from a subtree of the project's filesystem.
package core
