package model

import "github.com/oneconcern/projar/pkg/errors"

var (
	// ErrUnsafePath indicates a path escaping its root, e.g. with ".." segments
	ErrUnsafePath = errors.New("unsafe path")

	// ErrUnknownFormat indicates an archive format name that can't be parsed
	ErrUnknownFormat = errors.New("unknown archive format")
)
