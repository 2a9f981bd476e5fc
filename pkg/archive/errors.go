package archive

import (
	"fmt"

	"github.com/oneconcern/projar/pkg/archive/status"
	"github.com/oneconcern/projar/pkg/model"
)

// CorruptArchiveError reports a decoding failure on a truncated or corrupt archive.
//
// It matches status.ErrCorruptArchive with errors.Is.
type CorruptArchiveError struct {
	Format model.ArchiveFormat
	// Offset is the byte offset where decoding failed, or -1 when the codec doesn't tell.
	// For compressed tarballs, the offset counts decompressed bytes.
	Offset int64
	Err    error
}

func (e *CorruptArchiveError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s: %v", status.ErrCorruptArchive, e.Format, e.Err)
	}
	return fmt.Sprintf("%v: %s at offset %d: %v", status.ErrCorruptArchive, e.Format, e.Offset, e.Err)
}

// Unwrap to both the sentinel and the codec error
func (e *CorruptArchiveError) Unwrap() []error {
	return []error{status.ErrCorruptArchive, e.Err}
}

// BuildError reports a failure while building an archive.
//
// It matches status.ErrArchiveBuildFailed with errors.Is.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", status.ErrArchiveBuildFailed, e.Err)
	}
	return fmt.Sprintf("%v: %q: %v", status.ErrArchiveBuildFailed, e.Path, e.Err)
}

// Unwrap to both the sentinel and the cause
func (e *BuildError) Unwrap() []error {
	return []error{status.ErrArchiveBuildFailed, e.Err}
}
