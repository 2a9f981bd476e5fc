package archive

import (
	"context"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oneconcern/projar/internal/rand"
	"github.com/oneconcern/projar/pkg/archive/status"
	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/aferofs"
)

func TestBuildRoundTrip(t *testing.T) {
	t.Parallel()

	for _, toPin := range []struct {
		name   string
		format model.ArchiveFormat
		opts   []BuildOption
	}{
		{name: "zip", format: model.FormatZip},
		{name: "zip fast", format: model.FormatZip, opts: []BuildOption{CompressionLevel(flate.BestSpeed)}},
		{name: "zip stored", format: model.FormatZip, opts: []BuildOption{CompressionLevel(flate.NoCompression)}},
		{name: "tar.gz", format: model.FormatTarGz},
		{name: "tar", format: model.FormatTar},
	} {
		fixture := toPin

		t.Run(fixture.name, func(t *testing.T) {
			t.Parallel()

			src := rand.Package(rand.Files(30), rand.Depth(3), rand.Binary(true))
			fsys := aferofs.NewMemory()
			writeTree(t, fsys, "work/project", src)

			opts := append([]BuildOption{BuildLogger(zaptest.NewLogger(t))}, fixture.opts...)
			b, err := Build(context.Background(), fsys, "work/project", fixture.format, opts...)
			require.NoError(t, err)
			require.Equal(t, fixture.format, Detect(b))

			pkg, err := Extract(b)
			require.NoError(t, err)

			require.Len(t, pkg.Files, len(src.Files))
			for p, content := range src.Files {
				assert.Equalf(t, content, pkg.Files[p], "content of %q", p)
			}
			for _, dir := range src.Dirs {
				assert.Contains(t, pkg.Dirs, dir)
			}
		})
	}
}

func TestBuildOrdersParentsFirst(t *testing.T) {
	t.Parallel()

	src := model.NewPackage()
	src.AddFile("z/y/x.txt", []byte("x"))
	src.AddFile("a.txt", []byte("a"))
	src.AddFile("z/b.txt", []byte("b"))
	fsys := aferofs.NewMemory()
	writeTree(t, fsys, "", src)

	for _, format := range []model.ArchiveFormat{model.FormatZip, model.FormatTarGz} {
		b, err := Build(context.Background(), fsys, "", format)
		require.NoError(t, err)

		pkg, err := Extract(b)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "z/y"}, pkg.Dirs)
		assert.Equal(t, []string{"a.txt", "z/b.txt", "z/y/x.txt"}, pkg.Paths())
	}
}

type failingFS struct {
	vfs.FS
	fail string
}

var errInjected = errors.New("injected read failure")

func (f failingFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if name == f.fail {
		return nil, errInjected
	}
	return f.FS.ReadFile(ctx, name)
}

func TestBuildFailures(t *testing.T) {
	t.Parallel()

	src := model.NewPackage()
	src.AddFile("a.txt", []byte("a"))
	src.AddFile("sub/b.txt", []byte("b"))
	fsys := aferofs.NewMemory()
	writeTree(t, fsys, "project", src)

	t.Run("read error", func(t *testing.T) {
		t.Parallel()

		b, err := Build(context.Background(), failingFS{FS: fsys, fail: "project/sub/b.txt"}, "project", model.FormatZip)
		require.Error(t, err)
		assert.Nil(t, b)
		assert.True(t, errors.Is(err, status.ErrArchiveBuildFailed))
		assert.True(t, errors.Is(err, errInjected))

		var be *BuildError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, "sub/b.txt", be.Path)
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		b, err := Build(context.Background(), fsys, "nowhere", model.FormatTarGz)
		require.Error(t, err)
		assert.Nil(t, b)
		assert.True(t, errors.Is(err, status.ErrArchiveBuildFailed))
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := Build(context.Background(), fsys, "project", model.FormatZip, CompressionLevel(42))
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrArchiveBuildFailed))
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		_, err := Build(context.Background(), fsys, "project", model.ArchiveFormat(99))
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrUnsupportedFormat))
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Build(ctx, fsys, "project", model.FormatTar)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
