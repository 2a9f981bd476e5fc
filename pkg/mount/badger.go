package mount

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/dlogger"
	"github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/bdgr"
)

var _ Backend = &BadgerBackend{}

// BadgerBackend keeps every project in its own badger database,
// in a directory named after the store under a base directory.
type BadgerBackend struct {
	base   string
	opts   []bdgr.Option
	l      *zap.Logger
	open   func(string, ...bdgr.Option) (*bdgr.Store, error)

	mu      sync.Mutex
	stores  map[string]*bdgr.Store
	pending map[string]struct{}
}

// NewBadgerBackend builds a Backend persisting projects under base
func NewBadgerBackend(base string, l *zap.Logger, opts ...bdgr.Option) *BadgerBackend {
	l = dlogger.Or(l)
	return &BadgerBackend{
		base:    base,
		opts:    append([]bdgr.Option{bdgr.Logger(l)}, opts...),
		l:       l,
		open:    bdgr.Open,
		stores:  make(map[string]*bdgr.Store),
		pending: make(map[string]struct{}),
	}
}

// Register opens the database of a store.
//
// The name is reserved while the database opens, outside of the backend lock.
func (b *BadgerBackend) Register(_ context.Context, name string) (vfs.FS, error) {
	b.mu.Lock()
	_, registered := b.stores[name]
	_, opening := b.pending[name]
	if registered || opening {
		b.mu.Unlock()
		return nil, status.ErrAlreadyRegistered.WrapMessage(name)
	}
	b.pending[name] = struct{}{}
	b.mu.Unlock()

	store, err := b.open(filepath.Join(b.base, name), b.opts...)

	b.mu.Lock()
	delete(b.pending, name)
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.stores[name] = store
	b.mu.Unlock()
	b.l.Debug("registered badger store", zap.String("store", name), zap.Stringer("location", store))
	return store, nil
}

// Unregister closes the database of a store
func (b *BadgerBackend) Unregister(_ context.Context, name string) error {
	b.mu.Lock()
	store, ok := b.stores[name]
	delete(b.stores, name)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	b.l.Debug("unregistering badger store", zap.String("store", name))
	return store.Close()
}

// Lookup a registered store
func (b *BadgerBackend) Lookup(name string) (vfs.FS, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	store, ok := b.stores[name]
	if !ok {
		return nil, false
	}
	return store, true
}

// Registered lists registered store names, sorted
func (b *BadgerBackend) Registered() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.stores))
	for name := range b.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close all registered stores
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	stores := b.stores
	b.stores = make(map[string]*bdgr.Store)
	b.mu.Unlock()

	var first error
	for name, store := range stores {
		if err := store.Close(); err != nil {
			b.l.Warn("closing badger store", zap.String("store", name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
