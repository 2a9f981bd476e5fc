// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/projar/pkg/errors"
)

var (
	// ErrInterrupted signals that an import was canceled before anything was written
	ErrInterrupted = errors.New("import interrupted")
)
