package mount

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs/bdgr"
)

func TestBadgerBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := t.TempDir()
	backend := NewBadgerBackend(base, zaptest.NewLogger(t), bdgr.SyncWrites(false))
	defer func() {
		require.NoError(t, backend.Close())
	}()
	m := New(backend, Logger(zaptest.NewLogger(t)))

	err := m.WithMount(ctx, "p1", func(h *Handle) error {
		assert.Equal(t, []string{"project-p1"}, backend.Registered())
		return h.FS.WriteFile(ctx, "main.code", []byte("persisted"))
	})
	require.NoError(t, err)
	assert.Empty(t, backend.Registered())

	// the project is found back on the next mount
	h, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	content, err := h.FS.ReadFile(ctx, "main.code")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), content)

	_, err = backend.Register(ctx, StoreName("p1"))
	require.ErrorIs(t, err, status.ErrAlreadyRegistered)
	fsys, ok := backend.Lookup(StoreName("p1"))
	require.True(t, ok)
	assert.Same(t, h.FS, fsys)

	require.NoError(t, m.Close(ctx))
	require.NoError(t, backend.Unregister(ctx, "unknown"))
}

func TestBadgerBackendOpensStoresIndependently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewBadgerBackend(t.TempDir(), zaptest.NewLogger(t), bdgr.SyncWrites(false))
	defer func() {
		require.NoError(t, backend.Close())
	}()

	slow := StoreName("slow")
	opening := make(chan struct{})
	gate := make(chan struct{})
	backend.open = func(dir string, opts ...bdgr.Option) (*bdgr.Store, error) {
		if filepath.Base(dir) == slow {
			close(opening)
			<-gate
		}
		return bdgr.Open(dir, opts...)
	}

	done := make(chan error)
	go func() {
		_, err := backend.Register(ctx, slow)
		done <- err
	}()
	<-opening

	// the pending store is reserved, other stores register meanwhile
	_, err := backend.Register(ctx, slow)
	require.ErrorIs(t, err, status.ErrAlreadyRegistered)
	_, ok := backend.Lookup(slow)
	assert.False(t, ok)

	_, err = backend.Register(ctx, StoreName("fast"))
	require.NoError(t, err)
	assert.Equal(t, []string{StoreName("fast")}, backend.Registered())

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{StoreName("fast"), slow}, backend.Registered())
}

func TestBadgerBackendOpenFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewBadgerBackend(t.TempDir(), zaptest.NewLogger(t))
	errOpen := errors.New("disk unavailable")
	backend.open = func(string, ...bdgr.Option) (*bdgr.Store, error) {
		return nil, errOpen
	}

	_, err := backend.Register(ctx, StoreName("p1"))
	require.ErrorIs(t, err, errOpen)

	// the reservation is rolled back
	backend.open = bdgr.Open
	_, err = backend.Register(ctx, StoreName("p1"))
	require.NoError(t, err)
	require.NoError(t, backend.Close())
}

func TestBadgerBackendLookalikeProjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewBadgerBackend(t.TempDir(), zaptest.NewLogger(t), bdgr.SyncWrites(false))
	defer func() {
		require.NoError(t, backend.Close())
	}()
	m := New(backend, Logger(zaptest.NewLogger(t)))

	h1, err := m.Mount(ctx, "team/app")
	require.NoError(t, err)
	_, err = m.Mount(ctx, "team_app")
	require.NoError(t, err)
	assert.Len(t, backend.Registered(), 2)

	require.NoError(t, m.Unmount(ctx, "team_app"))
	assert.True(t, h1.Active())
	require.NoError(t, h1.FS.WriteFile(ctx, "main.code", []byte("still open")))

	require.NoError(t, m.Close(ctx))
}
