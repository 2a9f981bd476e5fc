package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/archive/status"
	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/vfs"
)

const (
	dirMode  = fs.ModeDir | 0o755
	fileMode = 0o644
)

// entryWriter serializes entries into some archive format
type entryWriter interface {
	dir(name string, modTime time.Time) error
	file(name string, modTime time.Time, content []byte) error
	Close() error
}

// Build serializes the tree under root into an archive.
//
// The tree is walked depth-first: a directory entry is always written before
// the entries it contains. Entry paths are relative to root.
//
// Any error aborts the whole build: no partial archive is ever returned.
func Build(ctx context.Context, fsys vfs.FS, root string, format model.ArchiveFormat, opts ...BuildOption) ([]byte, error) {
	o := defaultBuildOptions()
	for _, apply := range opts {
		apply(&o)
	}
	root = vfs.Clean(root)

	var buf bytes.Buffer
	w, err := newEntryWriter(&buf, format, o.level)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var entries int
	err = vfs.Walk(ctx, fsys, root, func(rel string, info vfs.FileInfo) error {
		modTime := info.ModTime
		if modTime.IsZero() {
			modTime = now
		}
		entries++
		if info.IsDir {
			if err := w.dir(rel, modTime); err != nil {
				return &BuildError{Path: rel, Err: err}
			}
			return nil
		}
		content, err := fsys.ReadFile(ctx, vfs.Join(root, rel))
		if err != nil {
			return &BuildError{Path: rel, Err: err}
		}
		if err := w.file(rel, modTime, content); err != nil {
			return &BuildError{Path: rel, Err: err}
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		var be *BuildError
		if !errors.As(err, &be) {
			err = &BuildError{Path: root, Err: err}
		}
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, &BuildError{Err: err}
	}

	o.l.Debug("archive built",
		zap.Stringer("format", format),
		zap.String("root", root),
		zap.Int("entries", entries),
		zap.Int("size", buf.Len()),
	)
	return buf.Bytes(), nil
}

func newEntryWriter(w io.Writer, format model.ArchiveFormat, level int) (entryWriter, error) {
	switch format {
	case model.FormatZip:
		// validate the level once, before any entry is compressed
		if _, err := flate.NewWriter(io.Discard, level); err != nil {
			return nil, &BuildError{Err: err}
		}
		zw := zip.NewWriter(w)
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
		return &zipWriter{zw: zw}, nil
	case model.FormatTarGz:
		gz, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, &BuildError{Err: err}
		}
		return &tarWriter{tw: tar.NewWriter(gz), gz: gz}, nil
	case model.FormatTar:
		return &tarWriter{tw: tar.NewWriter(w)}, nil
	default:
		return nil, status.ErrUnsupportedFormat.Wrap(fmt.Errorf("%v", format))
	}
}

type zipWriter struct {
	zw *zip.Writer
}

func (z *zipWriter) dir(name string, modTime time.Time) error {
	hdr := &zip.FileHeader{
		Name:     name + "/",
		Method:   zip.Store,
		Modified: modTime,
	}
	hdr.SetMode(dirMode)
	_, err := z.zw.CreateHeader(hdr)
	return err
}

func (z *zipWriter) file(name string, modTime time.Time, content []byte) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modTime,
	}
	hdr.SetMode(fileMode)
	fw, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = fw.Write(content)
	return err
}

func (z *zipWriter) Close() error {
	return z.zw.Close()
}

type tarWriter struct {
	tw *tar.Writer
	gz *gzip.Writer
}

func (t *tarWriter) dir(name string, modTime time.Time) error {
	return t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     int64(dirMode.Perm()),
		ModTime:  modTime,
	})
}

func (t *tarWriter) file(name string, modTime time.Time, content []byte) error {
	if err := t.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     int64(len(content)),
		Mode:     fileMode,
		ModTime:  modTime,
	}); err != nil {
		return err
	}
	_, err := t.tw.Write(content)
	return err
}

func (t *tarWriter) Close() error {
	err := t.tw.Close()
	if t.gz == nil {
		return err
	}
	if gerr := t.gz.Close(); err == nil {
		err = gerr
	}
	return err
}
