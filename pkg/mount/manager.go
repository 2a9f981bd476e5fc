package mount

import (
	"context"
	"path"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/metrics"
	"github.com/oneconcern/projar/pkg/mount/status"
)

// Manager mounts and unmounts project filesystems.
//
// It is the only writer of its Registry.
type Manager struct {
	managerOptions
	backend Backend
	flight  singleflight.Group
	closed  *atomic.Bool
}

// New mount manager registering project stores with backend
func New(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		managerOptions: defaultManagerOptions(),
		backend:        backend,
		closed:         atomic.NewBool(false),
	}
	for _, apply := range opts {
		apply(&m.managerOptions)
	}
	if m.registry == nil {
		m.registry = NewRegistry()
	}
	return m
}

// Registry of mounts, for inspection
func (m *Manager) Registry() *Registry {
	return m.registry
}

// State of the mount of a project
func (m *Manager) State(projectID string) State {
	return m.registry.State(projectID)
}

// Mount a project, or return its current handle if it is already mounted.
//
// Concurrent mounts of the same project wait for a single backend registration.
// Every successful call counts as a holder of the mount, until Release.
func (m *Manager) Mount(ctx context.Context, projectID string) (*Handle, error) {
	h, _, err := m.acquire(ctx, projectID)
	return h, err
}

// acquire a hold on the mount of a project, telling if this call registered the backing store
func (m *Manager) acquire(ctx context.Context, projectID string) (*Handle, bool, error) {
	if projectID == "" {
		return nil, false, status.ErrInvalidProject
	}

	for {
		if m.closed.Load() {
			return nil, false, status.ErrManagerClosed
		}
		e := m.registry.entry(projectID)
		if h := e.hold(nil); h != nil {
			return h, false, nil
		}

		var performed bool
		v, err, _ := m.flight.Do(projectID, func() (interface{}, error) {
			h, registered, err := m.mount(ctx, projectID, e)
			performed = registered
			return h, err
		})
		if err != nil {
			return nil, false, err
		}
		if h := e.hold(v.(*Handle)); h != nil {
			return h, performed, nil
		}

		// unmounted before we could hold it: try again
		m.l.Debug("mount withdrawn while acquiring, retrying", zap.String("project", projectID))
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
	}
}

// hold the current handle if the project is mounted, and if it is the expected one
func (e *entry) hold(expected *Handle) *Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Mounted || (expected != nil && e.handle != expected) {
		return nil
	}
	e.holders++
	return e.handle
}

// mount a project, telling if the backing store was registered by this call
func (m *Manager) mount(ctx context.Context, projectID string, e *entry) (*Handle, bool, error) {
	e.transition.Lock()
	defer e.transition.Unlock()

	e.mu.Lock()
	if e.state == Mounted {
		h := e.handle
		e.mu.Unlock()
		return h, false, nil
	}
	e.state = Mounting
	e.mu.Unlock()

	name := StoreName(projectID)
	l := m.l.With(zap.String("project", projectID), zap.String("store", name))

	registered := true
	fsys, err := m.backend.Register(ctx, name)
	if err != nil {
		if !errors.Is(err, status.ErrAlreadyRegistered) {
			e.reset()
			metrics.RecordRegistration(metrics.RegistrationFailed)
			return nil, false, err
		}

		// registered outside of this manager: treat the project as already mounted
		existing, ok := m.backend.Lookup(name)
		if !ok {
			e.reset()
			metrics.RecordRegistration(metrics.RegistrationFailed)
			return nil, false, err
		}
		l.Warn("backing store already registered, adopting it", zap.Error(err))
		fsys = existing
		registered = false
		metrics.RecordRegistration(metrics.RegistrationAdopted)
	} else {
		metrics.RecordRegistration(metrics.RegistrationCreated)
	}

	h := newHandle(projectID, path.Join(m.mountRoot, projectID), name, fsys)
	e.mu.Lock()
	e.state = Mounted
	e.handle = h
	e.holders = 0
	e.mu.Unlock()
	metrics.MountUp()

	l.Info("project mounted", zap.String("root", h.RootPath))
	return h, registered, nil
}

func (e *entry) reset() {
	e.mu.Lock()
	e.state = Unmounted
	e.handle = nil
	e.holders = 0
	e.mu.Unlock()
}

// Unmount a project, whatever its holders.
//
// Unmounting a project that is not mounted is a no-op. An unmount requested
// while the project is being mounted waits for the mount to complete.
func (m *Manager) Unmount(ctx context.Context, projectID string) error {
	e, ok := m.registry.lookup(projectID)
	if !ok {
		return nil
	}
	return m.unmount(ctx, e, nil)
}

// unmount the project, only if still mounted through expected when it is specified
func (m *Manager) unmount(ctx context.Context, e *entry, expected *Handle) error {
	e.transition.Lock()
	defer e.transition.Unlock()

	e.mu.Lock()
	h := e.handle
	if e.state != Mounted || (expected != nil && (h != expected || e.holders > 0)) {
		e.mu.Unlock()
		return nil
	}
	e.state = Unmounted
	e.handle = nil
	e.holders = 0
	h.deactivate()
	e.mu.Unlock()
	metrics.MountDown()

	l := m.l.With(zap.String("project", h.ProjectID), zap.String("store", h.store))
	if err := m.backend.Unregister(ctx, h.store); err != nil {
		l.Warn("unregistering backing store", zap.Error(err))
		return err
	}
	l.Info("project unmounted")
	return nil
}

// Release a hold on a mount. The project is unmounted when its last holder releases it.
//
// Releasing an inactive handle is a no-op.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	e, ok := m.release(h)
	if !ok {
		return nil
	}
	return m.unmount(ctx, e, h)
}

// release decrements holders, telling if none is left
func (m *Manager) release(h *Handle) (*entry, bool) {
	if !h.Active() {
		return nil, false
	}
	e, ok := m.registry.lookup(h.ProjectID)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle != h || e.holders == 0 {
		return nil, false
	}
	e.holders--
	return e, e.holders == 0
}

// WithMount runs action against the mount of a project, mounting it first if needed.
//
// The project is unmounted afterwards only if this call mounted it and no
// other caller took a hold on the mount in the meantime.
func (m *Manager) WithMount(ctx context.Context, projectID string, action func(*Handle) error) (err error) {
	h, performed, err := m.acquire(ctx, projectID)
	if err != nil {
		return err
	}
	defer func() {
		if !performed {
			_, _ = m.release(h)
			return
		}
		if rerr := m.Release(ctx, h); rerr != nil && err == nil {
			err = rerr
		}
	}()

	return action(h)
}

// Close unmounts all projects. Further mounts fail with status.ErrManagerClosed.
func (m *Manager) Close(ctx context.Context) error {
	m.closed.Store(true)
	var first error
	for _, projectID := range m.registry.Mounted() {
		if err := m.Unmount(ctx, projectID); err != nil && first == nil {
			first = err
		}
	}
	return first
}
