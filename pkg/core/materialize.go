// Copyright © 2018 One Concern

package core

import (
	"context"
	"fmt"

	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/mount"
	mountstatus "github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs"
)

// Materialize writes a package under destRoot on the filesystem of a mounted project.
//
// Directories are created first, then files in package order. Missing parent
// directories are created as needed and existing files are overwritten.
// It returns the number of files written.
func Materialize(ctx context.Context, h *mount.Handle, pkg *model.Package, destRoot string) (int, error) {
	if !h.Active() {
		return 0, mountstatus.ErrMountNotActive
	}
	fsys := h.FS
	destRoot = vfs.Clean(destRoot)

	dirs := newDirCache(fsys)
	if err := dirs.ensure(ctx, destRoot); err != nil {
		return 0, err
	}
	for _, dir := range pkg.Dirs {
		rel, err := model.CleanPath(dir)
		if err != nil {
			return 0, err
		}
		if err := dirs.ensure(ctx, vfs.Join(destRoot, rel)); err != nil {
			return 0, err
		}
	}

	var written int
	for _, p := range pkg.Paths() {
		rel, err := model.CleanPath(p)
		if err != nil {
			return written, err
		}
		if rel == "" {
			continue
		}
		target := vfs.Join(destRoot, rel)
		if err := dirs.ensure(ctx, model.ParentPath(target)); err != nil {
			return written, err
		}
		if err := fsys.WriteFile(ctx, target, pkg.Files[p]); err != nil {
			return written, fmt.Errorf("writing %q: %w", target, err)
		}
		written++
	}
	return written, nil
}

// dirCache remembers directories known to exist
type dirCache struct {
	fsys  vfs.FS
	known map[string]struct{}
}

func newDirCache(fsys vfs.FS) *dirCache {
	return &dirCache{
		fsys:  fsys,
		known: map[string]struct{}{"": {}},
	}
}

func (c *dirCache) ensure(ctx context.Context, dir string) error {
	if _, ok := c.known[dir]; ok {
		return nil
	}
	if err := vfs.MkdirAll(ctx, c.fsys, dir); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}
	for d := dir; d != ""; d = model.ParentPath(d) {
		c.known[d] = struct{}{}
	}
	return nil
}
