package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/vfs"
)

type testEntry struct {
	name    string
	body    string
	dir     bool
	symlink bool
}

func makeZip(t testing.TB, entries []testEntry) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: time.Now()}
		if e.dir {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !e.dir {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func makeTar(t testing.TB, entries []testEntry, compressed bool) []byte {
	var (
		buf bytes.Buffer
		gz  *gzip.Writer
		tw  *tar.Writer
	)
	if compressed {
		gz = gzip.NewWriter(&buf)
		tw = tar.NewWriter(gz)
	} else {
		tw = tar.NewWriter(&buf)
	}
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, ModTime: time.Now()}
		switch {
		case e.dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		case e.symlink:
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.body
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	if gz != nil {
		require.NoError(t, gz.Close())
	}
	return buf.Bytes()
}

// writeTree lays out a package on a FS, under root
func writeTree(t testing.TB, fsys vfs.FS, root string, pkg *model.Package) {
	ctx := context.Background()
	require.NoError(t, vfs.MkdirAll(ctx, fsys, root))
	for _, dir := range pkg.Dirs {
		require.NoError(t, vfs.MkdirAll(ctx, fsys, vfs.Join(root, dir)))
	}
	for _, p := range pkg.Paths() {
		target := vfs.Join(root, p)
		require.NoError(t, vfs.MkdirAll(ctx, fsys, model.ParentPath(target)))
		require.NoError(t, fsys.WriteFile(ctx, target, pkg.Files[p]))
	}
}
