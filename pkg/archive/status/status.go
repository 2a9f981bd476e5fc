// Package status exports errors produced by the archive package.
package status

import (
	"github.com/oneconcern/projar/pkg/errors"
)

var (
	// ErrUnrecognizedFormat indicates a buffer that is neither a ZIP nor a TAR archive
	ErrUnrecognizedFormat = errors.New("unrecognized archive format")

	// ErrCorruptArchive indicates a truncated or otherwise corrupt archive
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrArchiveTooLarge indicates an archive exceeding the configured extraction limits
	ErrArchiveTooLarge = errors.New("archive exceeds extraction limits")

	// ErrArchiveBuildFailed indicates that an archive could not be built from a filesystem tree
	ErrArchiveBuildFailed = errors.New("archive build failed")

	// ErrUnsupportedFormat indicates an archive format that can't be produced
	ErrUnsupportedFormat = errors.New("unsupported archive format")
)
