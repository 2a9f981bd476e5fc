package rand

import (
	"fmt"
	"path"

	"github.com/oneconcern/projar/pkg/model"
)

// TreeOption tunes the shape of a random package
type TreeOption func(*treeOptions)

type treeOptions struct {
	files    int
	depth    int
	maxSize  int
	prefix   string
	binaries bool
}

// Files sets the number of files in the tree
func Files(n int) TreeOption {
	return func(o *treeOptions) {
		o.files = n
	}
}

// Depth sets the maximum depth of folders in the tree
func Depth(n int) TreeOption {
	return func(o *treeOptions) {
		o.depth = n
	}
}

// MaxSize sets the maximum size of a file
func MaxSize(n int) TreeOption {
	return func(o *treeOptions) {
		o.maxSize = n
	}
}

// Wrapped nests the whole tree under a single folder
func Wrapped(folder string) TreeOption {
	return func(o *treeOptions) {
		o.prefix = folder
	}
}

// Binary fills files with random bytes rather than letters
func Binary(enabled bool) TreeOption {
	return func(o *treeOptions) {
		o.binaries = enabled
	}
}

// Package builds a random package. Files are never empty and every
// folder holding files is listed in the package directories.
func Package(opts ...TreeOption) *model.Package {
	o := treeOptions{
		files:   10,
		depth:   3,
		maxSize: 4096,
	}
	for _, apply := range opts {
		apply(&o)
	}

	pkg := model.NewPackage()
	if o.prefix != "" {
		pkg.AddDir(o.prefix)
	}
	for i := 0; i < o.files; i++ {
		dir := o.prefix
		for d := Intn(o.depth + 1); d > 0; d-- {
			dir = path.Join(dir, "d"+LetterString(4))
			pkg.AddDir(dir)
		}
		name := path.Join(dir, fmt.Sprintf("f%03d-%s.txt", i, LetterString(6)))

		size := 1 + Intn(o.maxSize)
		if o.binaries {
			pkg.AddFile(name, Bytes(size))
		} else {
			pkg.AddFile(name, LetterBytes(size))
		}
	}
	return pkg
}
