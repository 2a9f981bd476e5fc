// Package vfstest provides a conformance suite for vfs.FS implementations.
package vfstest

import (
	"context"
	"testing"

	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds a fresh, empty FS for a test
type Factory func(testing.TB) vfs.FS

// Run the conformance suite against the FS built by factory
func Run(t *testing.T, factory Factory) {
	t.Run("mkdir", func(t *testing.T) { testMkdir(t, factory(t)) })
	t.Run("write and read", func(t *testing.T) { testWriteRead(t, factory(t)) })
	t.Run("read dir", func(t *testing.T) { testReadDir(t, factory(t)) })
	t.Run("stat", func(t *testing.T) { testStat(t, factory(t)) })
	t.Run("walk", func(t *testing.T) { testWalk(t, factory(t)) })
}

func testMkdir(t *testing.T, fsys vfs.FS) {
	ctx := context.Background()

	require.NoError(t, fsys.Mkdir(ctx, "src"))
	err := fsys.Mkdir(ctx, "src")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	err = fsys.Mkdir(ctx, "missing/child")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExist))

	require.NoError(t, vfs.MkdirAll(ctx, fsys, "/a/b/c/"))
	require.NoError(t, vfs.MkdirAll(ctx, fsys, "a/b"), "MkdirAll is idempotent")

	require.NoError(t, fsys.WriteFile(ctx, "a/file", []byte("x")))
	err = vfs.MkdirAll(ctx, fsys, "a/file/sub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotDir))
}

func testWriteRead(t *testing.T, fsys vfs.FS) {
	ctx := context.Background()
	binary := []byte{0x00, 0xff, 0x1f, 0x8b, '\r', '\n', 0x00}

	require.NoError(t, fsys.Mkdir(ctx, "bin"))
	require.NoError(t, fsys.WriteFile(ctx, "bin/blob", binary))
	content, err := fsys.ReadFile(ctx, "/bin/blob")
	require.NoError(t, err)
	assert.Equal(t, binary, content)

	// overwrite
	require.NoError(t, fsys.WriteFile(ctx, "bin/blob", []byte("short")))
	content, err = fsys.ReadFile(ctx, "bin/blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), content)

	// empty file
	require.NoError(t, fsys.WriteFile(ctx, "empty", nil))
	content, err = fsys.ReadFile(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, content)

	err = fsys.WriteFile(ctx, "nodir/file", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExist))

	_, err = fsys.ReadFile(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExist))

	_, err = fsys.ReadFile(ctx, "bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrIsDir))

	err = fsys.WriteFile(ctx, "bin", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrIsDir))
}

func testReadDir(t *testing.T, fsys vfs.FS) {
	ctx := context.Background()

	require.NoError(t, vfs.MkdirAll(ctx, fsys, "src/lib"))
	require.NoError(t, fsys.WriteFile(ctx, "src/main.code", []byte("main")))
	require.NoError(t, fsys.WriteFile(ctx, "src/a-b.code", []byte("ab")))
	require.NoError(t, fsys.WriteFile(ctx, "src/lib/util.code", []byte("util")))
	require.NoError(t, fsys.WriteFile(ctx, "package.json", []byte("{}")))

	entries, err := fsys.ReadDir(ctx, "src")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a-b.code", entries[0].Name)
	assert.EqualValues(t, 2, entries[0].Size)
	assert.Equal(t, "lib", entries[1].Name)
	assert.True(t, entries[1].IsDir)
	assert.Equal(t, "main.code", entries[2].Name)

	root, err := fsys.ReadDir(ctx, "")
	require.NoError(t, err)
	require.Len(t, root, 2)
	assert.Equal(t, "package.json", root[0].Name)
	assert.Equal(t, "src", root[1].Name)

	_, err = fsys.ReadDir(ctx, "package.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotDir))

	_, err = fsys.ReadDir(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExist))
}

func testStat(t *testing.T, fsys vfs.FS) {
	ctx := context.Background()

	root, err := fsys.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, root.IsDir)

	require.NoError(t, fsys.Mkdir(ctx, "docs"))
	require.NoError(t, fsys.WriteFile(ctx, "docs/readme.md", []byte("hello")))

	info, err := fsys.Stat(ctx, "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "readme.md", info.Name)
	assert.EqualValues(t, 5, info.Size)
	assert.False(t, info.IsDir)

	info, err = fsys.Stat(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	ok, err := vfs.Exists(ctx, fsys, "docs/nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testWalk(t *testing.T, fsys vfs.FS) {
	ctx := context.Background()

	require.NoError(t, vfs.MkdirAll(ctx, fsys, "p/src/lib"))
	require.NoError(t, fsys.WriteFile(ctx, "p/src/lib/u.code", []byte("u")))
	require.NoError(t, fsys.WriteFile(ctx, "p/src/m.code", []byte("m")))
	require.NoError(t, fsys.WriteFile(ctx, "p/package.json", []byte("{}")))

	var visited []string
	require.NoError(t, vfs.Walk(ctx, fsys, "p", func(rel string, _ vfs.FileInfo) error {
		visited = append(visited, rel)
		return nil
	}))
	assert.Equal(t, []string{"package.json", "src", "src/lib", "src/lib/u.code", "src/m.code"}, visited)

	err := vfs.Walk(ctx, fsys, "p/package.json", func(string, vfs.FileInfo) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotDir))
}
