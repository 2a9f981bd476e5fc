// Package status declares error constants returned by
// implementations of the vfs.FS interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/vfs and one
// of its implementations.
package status

import "github.com/oneconcern/projar/pkg/errors"

var (
	// ErrNotExist indicates that the path does not exist
	ErrNotExist = errors.New("file does not exist")

	// ErrExists indicates that the path exists already
	ErrExists = errors.New("file exists already")

	// ErrNotDir indicates that a directory was expected
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir indicates that a file was expected
	ErrIsDir = errors.New("is a directory")

	// ErrTooLarge indicates a file larger than what the backing store accepts
	ErrTooLarge = errors.New("file too large")

	// ErrClosed indicates that the backing store has been closed
	ErrClosed = errors.New("store closed")
)
