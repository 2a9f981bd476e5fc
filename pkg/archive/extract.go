package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/archive/status"
	"github.com/oneconcern/projar/pkg/model"
)

// Extract the content of an archive into a Package.
//
// The format is sniffed with Detect. Entries with unsafe paths are dropped.
// Extraction never touches a filesystem and never returns a partial package:
// any decoding error fails the whole extraction.
func Extract(b []byte, opts ...ExtractOption) (*model.Package, error) {
	o := defaultExtractOptions()
	for _, apply := range opts {
		apply(&o)
	}
	if len(b) == 0 {
		return nil, status.ErrUnrecognizedFormat.WrapMessage("empty buffer")
	}

	x := &extractor{extractOptions: o, pkg: model.NewPackage()}
	format := Detect(b)
	o.l.Debug("extracting archive", zap.Stringer("format", format), zap.Int("size", len(b)))

	var err error
	switch format {
	case model.FormatZip:
		err = x.zip(b)
	case model.FormatTarGz:
		var gz *gzip.Reader
		gz, err = gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, &CorruptArchiveError{Format: format, Offset: -1, Err: err}
		}
		err = x.tar(gz, format)
		if cerr := gz.Close(); err == nil && cerr != nil {
			err = &CorruptArchiveError{Format: format, Offset: -1, Err: cerr}
		}
	default:
		err = x.tar(bytes.NewReader(b), format)
	}
	if err != nil {
		return nil, err
	}
	return x.pkg, nil
}

type extractor struct {
	extractOptions
	pkg   *model.Package
	files int
	total int64
}

// entryPath cleans an entry name, reporting false for entries to drop
func (x *extractor) entryPath(name string) (string, bool) {
	p, err := model.CleanPath(name)
	if err != nil {
		x.l.Debug("dropping unsafe archive entry", zap.String("entry", name), zap.Error(err))
		return "", false
	}
	return p, p != ""
}

func (x *extractor) admit(name string, size int64) error {
	x.files++
	if x.maxFiles > 0 && x.files > x.maxFiles {
		return status.ErrArchiveTooLarge.Wrap(fmt.Errorf("more than %d files", x.maxFiles))
	}
	if x.maxFileSize > 0 && size > x.maxFileSize {
		return status.ErrArchiveTooLarge.Wrap(fmt.Errorf("%q is larger than %d bytes", name, x.maxFileSize))
	}
	x.total += size
	if x.maxTotalSize > 0 && x.total > x.maxTotalSize {
		return status.ErrArchiveTooLarge.Wrap(fmt.Errorf("content is larger than %d bytes", x.maxTotalSize))
	}
	return nil
}

// readAll reads an entry, enforcing the file size limit on actual content
func (x *extractor) readAll(name string, r io.Reader) ([]byte, error) {
	if x.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	content, err := io.ReadAll(io.LimitReader(r, x.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > x.maxFileSize {
		return nil, status.ErrArchiveTooLarge.Wrap(fmt.Errorf("%q is larger than %d bytes", name, x.maxFileSize))
	}
	return content, nil
}

func (x *extractor) zip(b []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return &CorruptArchiveError{Format: model.FormatZip, Offset: -1, Err: err}
	}
	for _, f := range zr.File {
		p, ok := x.entryPath(f.Name)
		if !ok {
			continue
		}
		// an entry with no content is a directory
		if strings.HasSuffix(f.Name, "/") || f.UncompressedSize64 == 0 {
			x.pkg.AddDir(p)
			continue
		}
		if err = x.admit(p, int64(f.UncompressedSize64)); err != nil {
			return err
		}
		content, err := x.zipEntry(f, p)
		if err != nil {
			return err
		}
		x.pkg.AddFile(p, content)
	}
	return nil
}

func (x *extractor) zipEntry(f *zip.File, p string) ([]byte, error) {
	offset, oerr := f.DataOffset()
	if oerr != nil {
		offset = -1
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &CorruptArchiveError{Format: model.FormatZip, Offset: offset, Err: err}
	}
	defer rc.Close()

	content, err := x.readAll(p, rc)
	if err != nil {
		if errorsIsTooLarge(err) {
			return nil, err
		}
		return nil, &CorruptArchiveError{Format: model.FormatZip, Offset: offset, Err: err}
	}
	return content, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (x *extractor) tar(r io.Reader, format model.ArchiveFormat) error {
	cr := &countingReader{r: r}
	tr := tar.NewReader(cr)
	var entries int
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if entries == 0 && format == model.FormatTar {
				// plain tar is the fallback: a first header that doesn't parse means
				// this was never a tarball
				return status.ErrUnrecognizedFormat.Wrap(err)
			}
			return &CorruptArchiveError{Format: format, Offset: cr.n, Err: err}
		}
		entries++

		p, ok := x.entryPath(hdr.Name)
		if !ok {
			continue
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			x.pkg.AddDir(p)
		case tar.TypeReg:
			if err = x.admit(p, hdr.Size); err != nil {
				return err
			}
			content, err := x.readAll(p, tr)
			if err != nil {
				if errorsIsTooLarge(err) {
					return err
				}
				return &CorruptArchiveError{Format: format, Offset: cr.n, Err: err}
			}
			x.pkg.AddFile(p, content)
		default:
			x.l.Debug("skipping unsupported tar entry",
				zap.String("entry", hdr.Name),
				zap.String("type", string(hdr.Typeflag)),
			)
		}
	}
}
