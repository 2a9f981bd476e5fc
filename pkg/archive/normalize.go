package archive

import (
	"strings"

	"github.com/oneconcern/projar/pkg/model"
)

// RootPrefix detects a single top-level folder wrapping every path.
//
// It returns that folder followed by a slash, or "" when paths are not wrapped.
// A lone file named like the would-be folder is not a wrapper.
func RootPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	first := model.FirstSegment(paths[0])
	var nested bool
	for _, p := range paths {
		if model.FirstSegment(p) != first {
			return ""
		}
		switch {
		case p == first:
		case strings.HasPrefix(p, first+"/"):
			nested = true
		default:
			return ""
		}
	}
	if !nested {
		return ""
	}
	return first + "/"
}

// Normalize strips the root prefix of the files of a package, if any.
//
// The prefix is computed over file paths, then removed from every file and directory.
// Entries left empty by stripping, such as the wrapper folder itself, are dropped.
// It returns the normalized package, which is pkg itself when there is nothing to strip,
// and the stripped prefix.
func Normalize(pkg *model.Package) (*model.Package, string) {
	paths := pkg.Paths()
	prefix := RootPrefix(paths)
	if prefix == "" {
		return pkg, ""
	}
	folder := strings.TrimSuffix(prefix, "/")

	normalized := model.NewPackage()
	for _, dir := range pkg.Dirs {
		if dir == folder {
			continue
		}
		stripped := strings.TrimPrefix(dir, prefix)
		if stripped == "" {
			continue
		}
		normalized.AddDir(stripped)
	}
	for _, p := range paths {
		stripped := strings.TrimPrefix(p, prefix)
		if stripped == "" || p == folder {
			continue
		}
		normalized.AddFile(stripped, pkg.Files[p])
	}
	return normalized, prefix
}
