// Copyright © 2018 One Concern

package vfs

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/vfs/status"
)

// FS knows how to read and write a project tree.
//
// Mkdir creates a single directory: its parent must exist, and an existing entry
// yields status.ErrExists. WriteFile requires the parent directory to exist and
// replaces any previous content.
type FS interface {
	Mkdir(context.Context, string) error
	WriteFile(context.Context, string, []byte) error
	ReadFile(context.Context, string) ([]byte, error)
	ReadDir(context.Context, string) ([]FileInfo, error)
	Stat(context.Context, string) (FileInfo, error)
}

// FileInfo describes an entry of a FS
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	IsDir   bool      `json:"dir"`
	ModTime time.Time `json:"mtime"`
}

// Clean normalizes a path to the FS convention: no leading or trailing slash, "" for the root
func Clean(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimPrefix(p, "/")
}

// Join path elements into a clean FS path
func Join(elems ...string) string {
	return Clean(path.Join(elems...))
}

// MkdirAll creates a directory and all its missing parents.
//
// Existing directories are not an error. An existing file in the way is.
func MkdirAll(ctx context.Context, fsys FS, dir string) error {
	dir = Clean(dir)
	if dir == "" {
		return nil
	}
	var current string
	for _, segment := range strings.Split(dir, "/") {
		current = path.Join(current, segment)
		err := fsys.Mkdir(ctx, current)
		if err == nil {
			continue
		}
		if !errors.Is(err, status.ErrExists) {
			return err
		}
		info, serr := fsys.Stat(ctx, current)
		if serr != nil {
			return serr
		}
		if !info.IsDir {
			return status.ErrNotDir.Wrap(errors.New(current))
		}
	}
	return nil
}

// Exists tells if a path exists on the FS
func Exists(ctx context.Context, fsys FS, p string) (bool, error) {
	_, err := fsys.Stat(ctx, p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, status.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// WalkFunc is called for every entry visited by Walk, with its path
// relative to the walked root. Returning an error stops the walk.
type WalkFunc func(rel string, info FileInfo) error

// Walk visits the tree under root depth-first. A directory is always
// visited before its children, and children are visited by name order.
// The root itself is not visited.
func Walk(ctx context.Context, fsys FS, root string, fn WalkFunc) error {
	root = Clean(root)
	info, err := fsys.Stat(ctx, root)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return status.ErrNotDir.Wrap(errors.New(root))
	}
	return walkDir(ctx, fsys, root, "", fn)
}

func walkDir(ctx context.Context, fsys FS, root, rel string, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := fsys.ReadDir(ctx, Join(root, rel))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		child := path.Join(rel, entry.Name)
		if err := fn(child, entry); err != nil {
			return err
		}
		if entry.IsDir {
			if err := walkDir(ctx, fsys, root, child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
