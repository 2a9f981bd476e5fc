package mount

import (
	"context"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/atomic"

	"github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/aferofs"
)

var _ Backend = &MemoryBackend{}

// MemoryBackend keeps projects in memory, for tests and throw-away sessions.
//
// Content survives an unregistration, so that mounting a project again
// finds its files back, like with a persistent backend.
type MemoryBackend struct {
	mu            sync.Mutex
	data          map[string]vfs.FS
	registered    map[string]vfs.FS
	registrations *atomic.Int64
}

// NewMemoryBackend builds an empty in-memory Backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:          make(map[string]vfs.FS),
		registered:    make(map[string]vfs.FS),
		registrations: atomic.NewInt64(0),
	}
}

// Register a store, creating it on first use
func (b *MemoryBackend) Register(_ context.Context, name string) (vfs.FS, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.registered[name]; ok {
		return nil, status.ErrAlreadyRegistered.WrapMessage(name)
	}
	fsys, ok := b.data[name]
	if !ok {
		fsys = aferofs.New(afero.NewMemMapFs())
		b.data[name] = fsys
	}
	b.registered[name] = fsys
	b.registrations.Inc()
	return fsys, nil
}

// Unregister a store. Its content is kept.
func (b *MemoryBackend) Unregister(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.registered, name)
	return nil
}

// Lookup a registered store
func (b *MemoryBackend) Lookup(name string) (vfs.FS, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fsys, ok := b.registered[name]
	return fsys, ok
}

// Registrations counts successful registrations since the creation of the backend
func (b *MemoryBackend) Registrations() int64 {
	return b.registrations.Load()
}
