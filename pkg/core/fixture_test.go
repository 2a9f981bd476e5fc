package core

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oneconcern/projar/pkg/mount"
)

type testFile struct {
	name string
	body string
}

func makeZip(t testing.TB, files ...testFile) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestMounts(t testing.TB) (*mount.Manager, *mount.MemoryBackend) {
	backend := mount.NewMemoryBackend()
	return mount.New(backend, mount.Logger(zaptest.NewLogger(t))), backend
}
