package model

import (
	"fmt"
	"strings"
)

// CleanPath normalizes an archive entry path into the package path convention:
// '/'-separated, no leading slash, no "." segments, no trailing slash.
//
// Paths with ".." segments are rejected with ErrUnsafePath. An empty result
// designates the root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	parts := strings.Split(p, "/")
	cleaned := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrUnsafePath.Wrap(fmt.Errorf("%q", p))
		}
		cleaned = append(cleaned, part)
	}
	return strings.Join(cleaned, "/"), nil
}

// JoinPath joins package path elements, skipping empty ones
func JoinPath(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(e, "/")
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}

// ParentPath returns the parent directory of a package path, or "" for top-level entries
func ParentPath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// FirstSegment returns the first path segment of a package path
func FirstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
