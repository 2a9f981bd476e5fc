package mount

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs"
)

// gatedBackend blocks registrations of a store until its gate is opened
type gatedBackend struct {
	*MemoryBackend
	store string
	gate  chan struct{}
	calls *atomic.Int64
}

func newGatedBackend(projectID string) *gatedBackend {
	return &gatedBackend{
		MemoryBackend: NewMemoryBackend(),
		store:         StoreName(projectID),
		gate:          make(chan struct{}),
		calls:         atomic.NewInt64(0),
	}
}

func (g *gatedBackend) Register(ctx context.Context, name string) (vfs.FS, error) {
	if name == g.store {
		g.calls.Inc()
		<-g.gate
	}
	return g.MemoryBackend.Register(ctx, name)
}

type failingBackend struct {
	*MemoryBackend
}

var errBackend = errors.New("backend unavailable")

func (failingBackend) Register(context.Context, string) (vfs.FS, error) {
	return nil, errBackend
}

func newTestManager(t *testing.T, backend Backend) *Manager {
	return New(backend, Logger(zaptest.NewLogger(t)))
}

func TestMountIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	backend := NewMemoryBackend()
	m := newTestManager(t, backend)
	assert.Equal(t, Unmounted, m.State("p1"))

	h1, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	h2, err := m.Mount(ctx, "p1")
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.True(t, h1.Active())
	assert.Equal(t, "p1", h1.ProjectID)
	assert.Equal(t, "/projects/p1", h1.RootPath)
	assert.Equal(t, "project-p1", h1.StoreName())
	assert.Equal(t, Mounted, m.State("p1"))
	assert.Equal(t, 2, m.Registry().Holders("p1"))
	assert.EqualValues(t, 1, backend.Registrations())
	assert.Equal(t, []string{"p1"}, m.Registry().Mounted())

	require.NoError(t, m.Close(ctx))
	assert.False(t, h1.Active())
}

func TestMountConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	const callers = 20
	ctx := context.Background()
	backend := newGatedBackend("shared")
	m := newTestManager(t, backend)

	handles := make([]*Handle, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = m.Mount(ctx, "shared")
		}(i)
	}

	require.Eventually(t, func() bool {
		return backend.calls.Load() == 1
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return m.State("shared") == Mounting
	}, time.Second, time.Millisecond)
	close(backend.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.EqualValues(t, 1, backend.Registrations())
	assert.Equal(t, callers, m.Registry().Holders("shared"))

	require.NoError(t, m.Close(ctx))
}

func TestMountDifferentProjectsIndependently(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	backend := newGatedBackend("slow")
	m := newTestManager(t, backend)

	done := make(chan error)
	go func() {
		_, err := m.Mount(ctx, "slow")
		done <- err
	}()
	require.Eventually(t, func() bool {
		return backend.calls.Load() == 1
	}, time.Second, time.Millisecond)

	// not blocked by the pending mount of another project
	h, err := m.Mount(ctx, "fast")
	require.NoError(t, err)
	assert.True(t, h.Active())
	assert.Equal(t, Mounting, m.State("slow"))

	close(backend.gate)
	require.NoError(t, <-done)
	assert.Equal(t, Mounted, m.State("slow"))
	assert.Equal(t, []string{"fast", "slow"}, m.Registry().Mounted())

	require.NoError(t, m.Close(ctx))
}

func TestUnmount(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	backend := NewMemoryBackend()
	m := newTestManager(t, backend)

	// no-op on unknown projects
	require.NoError(t, m.Unmount(ctx, "unknown"))

	h, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, h.FS.WriteFile(ctx, "main.code", []byte("hello")))

	require.NoError(t, m.Unmount(ctx, "p1"))
	assert.False(t, h.Active())
	assert.Equal(t, Unmounted, m.State("p1"))
	_, registered := backend.Lookup(StoreName("p1"))
	assert.False(t, registered)

	// no-op when already unmounted
	require.NoError(t, m.Unmount(ctx, "p1"))

	// a new mount resolves to the same data
	again, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	assert.NotSame(t, h, again)
	content, err := again.FS.ReadFile(ctx, "main.code")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
	assert.EqualValues(t, 2, backend.Registrations())

	require.NoError(t, m.Close(ctx))
}

func TestRelease(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	m := newTestManager(t, NewMemoryBackend())

	h, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	_, err = m.Mount(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, m.Release(ctx, h))
	assert.Equal(t, Mounted, m.State("p1"))
	assert.True(t, h.Active())

	require.NoError(t, m.Release(ctx, h))
	assert.Equal(t, Unmounted, m.State("p1"))
	assert.False(t, h.Active())

	// no-op on an inactive handle
	require.NoError(t, m.Release(ctx, h))
	require.NoError(t, m.Release(ctx, nil))
}

func TestWithMount(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	t.Run("unmounts what it mounted", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())

		var seen *Handle
		err := m.WithMount(ctx, "p1", func(h *Handle) error {
			seen = h
			assert.True(t, h.Active())
			assert.Equal(t, Mounted, m.State("p1"))
			return h.FS.WriteFile(ctx, "a.txt", []byte("a"))
		})
		require.NoError(t, err)
		assert.False(t, seen.Active())
		assert.Equal(t, Unmounted, m.State("p1"))
	})

	t.Run("leaves a mount held elsewhere", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())

		editor, err := m.Mount(ctx, "p1")
		require.NoError(t, err)

		err = m.WithMount(ctx, "p1", func(h *Handle) error {
			assert.Same(t, editor, h)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, editor.Active())
		assert.Equal(t, Mounted, m.State("p1"))
		assert.Equal(t, 1, m.Registry().Holders("p1"))

		require.NoError(t, m.Close(ctx))
	})

	t.Run("leaves a mount taken during the action", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())

		var editor *Handle
		err := m.WithMount(ctx, "p1", func(h *Handle) error {
			var err error
			editor, err = m.Mount(ctx, "p1")
			return err
		})
		require.NoError(t, err)
		assert.True(t, editor.Active())
		assert.Equal(t, Mounted, m.State("p1"))

		require.NoError(t, m.Release(ctx, editor))
		assert.Equal(t, Unmounted, m.State("p1"))
	})

	t.Run("action error", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())
		errAction := errors.New("action failed")

		err := m.WithMount(ctx, "p1", func(*Handle) error {
			return errAction
		})
		require.ErrorIs(t, err, errAction)
		assert.Equal(t, Unmounted, m.State("p1"))
	})
}

func TestMountConflict(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	t.Run("mount adopts the registered store", func(t *testing.T) {
		backend := NewMemoryBackend()
		m := newTestManager(t, backend)

		// registered behind the manager's back
		external, err := backend.Register(ctx, StoreName("p1"))
		require.NoError(t, err)

		h, err := m.Mount(ctx, "p1")
		require.NoError(t, err)
		assert.Same(t, external, h.FS)
		assert.Equal(t, Mounted, m.State("p1"))
		assert.EqualValues(t, 1, backend.Registrations())

		// once adopted, the store is owned by the manager
		require.NoError(t, m.Unmount(ctx, "p1"))
		_, registered := backend.Lookup(StoreName("p1"))
		assert.False(t, registered)
	})

	t.Run("with mount leaves an adopted store", func(t *testing.T) {
		backend := NewMemoryBackend()
		m := newTestManager(t, backend)

		external, err := backend.Register(ctx, StoreName("p1"))
		require.NoError(t, err)

		require.NoError(t, m.WithMount(ctx, "p1", func(h *Handle) error {
			assert.Same(t, external, h.FS)
			return nil
		}))
		assert.Equal(t, Mounted, m.State("p1"))
		_, registered := backend.Lookup(StoreName("p1"))
		assert.True(t, registered)
		assert.EqualValues(t, 1, backend.Registrations())
	})
}

func TestMountErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()

	t.Run("empty project", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())
		_, err := m.Mount(ctx, "")
		require.ErrorIs(t, err, status.ErrInvalidProject)
	})

	t.Run("backend failure", func(t *testing.T) {
		m := newTestManager(t, failingBackend{MemoryBackend: NewMemoryBackend()})
		_, err := m.Mount(ctx, "p1")
		require.ErrorIs(t, err, errBackend)
		assert.Equal(t, Unmounted, m.State("p1"))

		called := false
		err = m.WithMount(ctx, "p1", func(*Handle) error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, errBackend)
		assert.False(t, called)
	})

	t.Run("closed manager", func(t *testing.T) {
		m := newTestManager(t, NewMemoryBackend())
		require.NoError(t, m.Close(ctx))
		_, err := m.Mount(ctx, "p1")
		require.ErrorIs(t, err, status.ErrManagerClosed)
	})
}

func TestInjectedRegistry(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	registry := NewRegistry()
	m := New(NewMemoryBackend(), WithRegistry(registry), MountRoot("/workspace"))

	h, err := m.Mount(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "/workspace/p1", h.RootPath)
	assert.Same(t, registry, m.Registry())
	assert.Equal(t, Mounted, registry.State("p1"))

	require.NoError(t, m.Close(ctx))
	assert.Empty(t, registry.Mounted())
}

func TestStoreName(t *testing.T) {
	for _, toPin := range []struct {
		projectID string
		expected  string
	}{
		{projectID: "p1", expected: "project-p1"},
		{projectID: "My_Project-2.0", expected: "project-My_5fProject-2.0"},
		{projectID: "a/b c", expected: "project-a_2fb_20c"},
		{projectID: "../up", expected: "project-.._2fup"},
		{projectID: "team/app", expected: "project-team_2fapp"},
		{projectID: "team_app", expected: "project-team_5fapp"},
		{projectID: "été", expected: "project-_c3_a9t_c3_a9"},
	} {
		fixture := toPin
		t.Run(fixture.projectID, func(t *testing.T) {
			assert.Equal(t, fixture.expected, StoreName(fixture.projectID))
		})
	}
}

func TestMountLookalikeProjects(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	backend := NewMemoryBackend()
	m := newTestManager(t, backend)

	h1, err := m.Mount(ctx, "team/app")
	require.NoError(t, err)
	require.NoError(t, h1.FS.WriteFile(ctx, "secret.txt", []byte("from team/app")))

	h2, err := m.Mount(ctx, "team_app")
	require.NoError(t, err)
	assert.NotEqual(t, h1.StoreName(), h2.StoreName())
	assert.EqualValues(t, 2, backend.Registrations())

	_, err = h2.FS.ReadFile(ctx, "secret.txt")
	require.Error(t, err)

	// unmounting one project leaves the other untouched
	require.NoError(t, m.Unmount(ctx, "team_app"))
	assert.False(t, h2.Active())
	assert.True(t, h1.Active())
	assert.Equal(t, Mounted, m.State("team/app"))
	content, err := h1.FS.ReadFile(ctx, "secret.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("from team/app"), content)

	require.NoError(t, m.Close(ctx))
}

func TestNilLogger(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	m := New(NewMemoryBackend(), Logger(nil))
	require.NoError(t, m.WithMount(ctx, "p1", func(h *Handle) error {
		return h.FS.WriteFile(ctx, "main.code", []byte("logged nowhere"))
	}))
	require.NoError(t, m.Close(ctx))
}

func TestState(t *testing.T) {
	assert.Equal(t, "unmounted", Unmounted.String())
	assert.Equal(t, "mounting", Mounting.String())
	assert.Equal(t, "mounted", Mounted.String())
	assert.Equal(t, "state(7)", State(7).String())
}
