// Package status exports errors produced by the mount package.
package status

import (
	"github.com/oneconcern/projar/pkg/errors"
)

var (
	// ErrMountNotActive indicates an operation on a project that is not mounted
	ErrMountNotActive = errors.New("project mount not active")

	// ErrAlreadyRegistered indicates a backing store registered twice.
	//
	// The mount manager recovers from this error by adopting the registered store.
	ErrAlreadyRegistered = errors.New("backing store already registered")

	// ErrInvalidProject indicates an empty project identifier
	ErrInvalidProject = errors.New("invalid project identifier")

	// ErrManagerClosed indicates a mount requested after the manager was closed
	ErrManagerClosed = errors.New("mount manager closed")
)
