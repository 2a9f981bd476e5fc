package model

import (
	"sort"
)

// Package is the in-memory content of a project archive.
//
// Files keeps the content of every file, keyed by path. Order keeps the
// order in which files were added and drives the order of writes on
// materialization. Every parent of a file path is implicitly a directory,
// whether or not it is listed in Dirs.
type Package struct {
	Dirs  []string
	Files map[string][]byte
	Order []string

	_ struct{} // avoid unkeyed usage
}

// NewPackage builds an empty package
func NewPackage() *Package {
	return &Package{
		Files: make(map[string][]byte),
	}
}

// AddDir records a directory. Duplicates and the root are ignored.
func (p *Package) AddDir(dir string) {
	if dir == "" {
		return
	}
	for _, d := range p.Dirs {
		if d == dir {
			return
		}
	}
	p.Dirs = append(p.Dirs, dir)
}

// AddFile records a file. Adding a path twice replaces its content
// but keeps its original position.
func (p *Package) AddFile(name string, content []byte) {
	if p.Files == nil {
		p.Files = make(map[string][]byte)
	}
	if _, exists := p.Files[name]; !exists {
		p.Order = append(p.Order, name)
	}
	p.Files[name] = content
}

// Paths returns file paths in insertion order.
//
// Files added directly to the map without AddFile are appended in lexical order.
func (p *Package) Paths() []string {
	paths := make([]string, 0, len(p.Files))
	seen := make(map[string]struct{}, len(p.Files))
	for _, name := range p.Order {
		if _, ok := p.Files[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		paths = append(paths, name)
	}
	if len(paths) == len(p.Files) {
		return paths
	}
	extra := make([]string, 0, len(p.Files)-len(paths))
	for name := range p.Files {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(paths, extra...)
}

// Size is the total size in bytes of all files
func (p *Package) Size() int64 {
	var total int64
	for _, content := range p.Files {
		total += int64(len(content))
	}
	return total
}
