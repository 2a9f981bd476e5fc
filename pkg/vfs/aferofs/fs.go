// Copyright © 2018 One Concern

// Package aferofs implements vfs.FS on top of an afero.Fs.
package aferofs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/status"
	"github.com/spf13/afero"
)

const (
	dirDefaultMode  = 0755
	fileDefaultMode = 0644
)

var _ vfs.FS = &aferoFS{}

// New creates a vfs.FS backed by an afero filesystem.
//
// When fs is nil, the FS is rooted in a local directory ".projar/files".
func New(fs afero.Fs) vfs.FS {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".projar", "files"))
	}
	return &aferoFS{
		fs: fs,
	}
}

// NewMemory creates an in-memory vfs.FS
func NewMemory() vfs.FS {
	return New(afero.NewMemMapFs())
}

type aferoFS struct {
	fs afero.Fs
}

func aferoPath(p string) string {
	return "/" + vfs.Clean(p)
}

func rewriteError(p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return status.ErrNotExist.Wrap(fmt.Errorf("%q", p))
	case errors.Is(err, fs.ErrExist):
		return status.ErrExists.Wrap(fmt.Errorf("%q", p))
	default:
		return err
	}
}

func (a *aferoFS) requireDir(p string) error {
	fi, err := a.fs.Stat(aferoPath(p))
	if err != nil {
		return rewriteError(p, err)
	}
	if !fi.IsDir() {
		return status.ErrNotDir.Wrap(fmt.Errorf("%q", p))
	}
	return nil
}

func (a *aferoFS) Mkdir(_ context.Context, dir string) error {
	dir = vfs.Clean(dir)
	if dir == "" {
		return status.ErrExists.Wrap(fmt.Errorf("%q", "/"))
	}
	if err := a.requireDir(path.Dir(dir)); err != nil {
		return err
	}
	if _, err := a.fs.Stat(aferoPath(dir)); err == nil {
		return status.ErrExists.Wrap(fmt.Errorf("%q", dir))
	}
	return rewriteError(dir, a.fs.Mkdir(aferoPath(dir), dirDefaultMode))
}

func (a *aferoFS) WriteFile(_ context.Context, name string, content []byte) error {
	name = vfs.Clean(name)
	if err := a.requireDir(path.Dir(name)); err != nil {
		return err
	}
	if fi, err := a.fs.Stat(aferoPath(name)); err == nil && fi.IsDir() {
		return status.ErrIsDir.Wrap(fmt.Errorf("%q", name))
	}
	target, err := a.fs.OpenFile(aferoPath(name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileDefaultMode)
	if err != nil {
		return fmt.Errorf("create record for %q: %w", name, rewriteError(name, err))
	}
	if _, err = target.Write(content); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %w", name, err)
	}
	return target.Close()
}

func (a *aferoFS) ReadFile(_ context.Context, name string) ([]byte, error) {
	name = vfs.Clean(name)
	fi, err := a.fs.Stat(aferoPath(name))
	if err != nil {
		return nil, rewriteError(name, err)
	}
	if fi.IsDir() {
		return nil, status.ErrIsDir.Wrap(fmt.Errorf("%q", name))
	}
	content, err := afero.ReadFile(a.fs, aferoPath(name))
	return content, rewriteError(name, err)
}

func (a *aferoFS) ReadDir(_ context.Context, dir string) ([]vfs.FileInfo, error) {
	dir = vfs.Clean(dir)
	if err := a.requireDir(dir); err != nil {
		return nil, err
	}
	// afero.ReadDir sorts entries by name
	entries, err := afero.ReadDir(a.fs, aferoPath(dir))
	if err != nil {
		return nil, rewriteError(dir, err)
	}
	res := make([]vfs.FileInfo, 0, len(entries))
	for _, entry := range entries {
		res = append(res, fileInfo(entry.Name(), entry))
	}
	return res, nil
}

func (a *aferoFS) Stat(_ context.Context, name string) (vfs.FileInfo, error) {
	name = vfs.Clean(name)
	fi, err := a.fs.Stat(aferoPath(name))
	if err != nil {
		return vfs.FileInfo{}, rewriteError(name, err)
	}
	return fileInfo(path.Base("/"+name), fi), nil
}

func fileInfo(name string, fi os.FileInfo) vfs.FileInfo {
	info := vfs.FileInfo{
		Name:    name,
		IsDir:   fi.IsDir(),
		ModTime: fi.ModTime(),
	}
	if !info.IsDir {
		info.Size = fi.Size()
	}
	return info
}

func (a *aferoFS) String() string {
	const aferofs = "aferofs"
	switch fs := a.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return aferofs
		}
		return aferofs + "@" + pp
	case *afero.MemMapFs:
		return aferofs + "@memory"
	default:
		return aferofs
	}
}
