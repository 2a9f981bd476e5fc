package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/projar/pkg/model"
)

func TestRootPrefix(t *testing.T) {
	t.Parallel()

	for _, toPin := range []struct {
		name     string
		paths    []string
		expected string
	}{
		{name: "wrapped", paths: []string{"pkg/a.txt", "pkg/sub/b.txt"}, expected: "pkg/"},
		{name: "flat", paths: []string{"a.txt", "b/c.txt"}, expected: ""},
		{name: "single nested file", paths: []string{"pkg/a.txt"}, expected: "pkg/"},
		{name: "single flat file", paths: []string{"pkg"}, expected: ""},
		{name: "file named like sibling folder", paths: []string{"pkg", "pkg/a.txt"}, expected: "pkg/"},
		{name: "similar names", paths: []string{"pkg/a.txt", "pkg2/b.txt"}, expected: ""},
		{name: "none", paths: nil, expected: ""},
	} {
		fixture := toPin

		t.Run(fixture.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, fixture.expected, RootPrefix(fixture.paths))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("strip wrapper", func(t *testing.T) {
		t.Parallel()

		pkg := model.NewPackage()
		pkg.AddDir("pkg")
		pkg.AddDir("pkg/sub")
		pkg.AddFile("pkg/a.txt", []byte("a"))
		pkg.AddFile("pkg/sub/b.txt", []byte("b"))

		normalized, prefix := Normalize(pkg)
		require.Equal(t, "pkg/", prefix)
		assert.Equal(t, []string{"sub"}, normalized.Dirs)
		assert.Equal(t, []string{"a.txt", "sub/b.txt"}, normalized.Paths())
		assert.Equal(t, []byte("a"), normalized.Files["a.txt"])
		assert.Equal(t, []byte("b"), normalized.Files["sub/b.txt"])
	})

	t.Run("flat package is untouched", func(t *testing.T) {
		t.Parallel()

		pkg := model.NewPackage()
		pkg.AddDir("b")
		pkg.AddFile("a.txt", []byte("a"))
		pkg.AddFile("b/c.txt", []byte("c"))

		normalized, prefix := Normalize(pkg)
		assert.Empty(t, prefix)
		assert.Same(t, pkg, normalized)
	})

	t.Run("bare file named like the wrapper is dropped", func(t *testing.T) {
		t.Parallel()

		pkg := model.NewPackage()
		pkg.AddFile("pkg", []byte("odd"))
		pkg.AddFile("pkg/a.txt", []byte("a"))

		normalized, prefix := Normalize(pkg)
		require.Equal(t, "pkg/", prefix)
		assert.Equal(t, []string{"a.txt"}, normalized.Paths())
		assert.Empty(t, normalized.Dirs)
	})
}
