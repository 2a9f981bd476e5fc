// Package bdgr implements a persistent vfs.FS on top of a badger database.
//
// Each project gets its own database directory. Directory and file entries are
// stored as JSON-encoded inodes under "i:{path}" keys, file contents under "c:{path}" keys.
// The root directory is implicit.
package bdgr

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v3"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/convert"
	"github.com/oneconcern/projar/pkg/errors"
	"github.com/oneconcern/projar/pkg/vfs"
	"github.com/oneconcern/projar/pkg/vfs/status"
)

const (
	// MaxInMemoryFileSize is the largest file an in-memory store accepts
	MaxInMemoryFileSize = 1 << 20

	defaultConflictRetries = 50
	conflictBackoff        = 10 * time.Millisecond
)

var (
	inodePref   = [2]byte{'i', ':'}
	contentPref = [2]byte{'c', ':'}

	_ vfs.FS = &Store{}
)

type inode struct {
	Dir     bool      `json:"dir,omitempty"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Store is a project filesystem persisted in badger
type Store struct {
	storeOptions
	dir    string
	db     *badger.DB
	l      *zap.Logger
	closed *atomic.Bool
	close  sync.Once
}

// Open a badger-backed project store located in dir.
//
// Reopening the same directory yields the same content.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		storeOptions: defaultStoreOptions(),
		dir:          dir,
		l:            zap.NewNop(),
		closed:       atomic.NewBool(false),
	}
	for _, apply := range opts {
		apply(s)
	}

	db, err := badger.Open(s.badgerOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("open project store %q: %w", dir, err)
	}
	s.db = db
	s.l.Debug("opened project store", zap.String("dir", dir), zap.Bool("in-memory", s.inMemory))
	return s, nil
}

// Close the underlying database. Closing twice is a no-op.
func (s *Store) Close() error {
	var err error
	s.close.Do(func() {
		s.closed.Store(true)
		err = s.db.Close()
	})
	return err
}

// Drop removes all entries from the store
func (s *Store) Drop() error {
	if s.closed.Load() {
		return status.ErrClosed
	}
	return s.db.DropAll()
}

// Size reports about the size in bytes of the DB
func (s *Store) Size() uint64 {
	lsmSize, logSize := s.db.Size()
	return uint64(lsmSize + logSize)
}

func (s *Store) String() string {
	if s.inMemory {
		return "badger@memory"
	}
	return "badger@" + s.dir
}

func inodeKey(p string) []byte {
	return append(inodePref[:], convert.UnsafeStringToBytes(p)...)
}

func contentKey(p string) []byte {
	return append(contentPref[:], convert.UnsafeStringToBytes(p)...)
}

func badgerRewriteError(p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return status.ErrNotExist.Wrap(fmt.Errorf("%q", p))
	default:
		return err
	}
}

func getInode(txn *badger.Txn, p string) (inode, error) {
	if p == "" {
		return inode{Dir: true}, nil
	}
	item, err := txn.Get(inodeKey(p))
	if err != nil {
		return inode{}, badgerRewriteError(p, err)
	}
	var n inode
	err = item.Value(func(val []byte) error {
		return jsoniter.Unmarshal(val, &n)
	})
	if err != nil {
		return inode{}, fmt.Errorf("decode inode %q: %w", p, err)
	}
	return n, nil
}

func setInode(txn *badger.Txn, p string, n inode) error {
	data, err := jsoniter.Marshal(n)
	if err != nil {
		return err
	}
	return txn.Set(inodeKey(p), data)
}

func requireDir(txn *badger.Txn, p string) error {
	n, err := getInode(txn, p)
	if err != nil {
		return err
	}
	if !n.Dir {
		return status.ErrNotDir.Wrap(fmt.Errorf("%q", p))
	}
	return nil
}

func parent(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

// update retries transactions aborted by a conflict with a concurrent writer
func (s *Store) update(ctx context.Context, fn func(*badger.Txn) error) error {
	if s.closed.Load() {
		return status.ErrClosed
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(conflictBackoff), s.retries),
		ctx,
	)
	return backoff.Retry(func() error {
		err := s.db.Update(fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, badger.ErrConflict) {
			s.l.Debug("retrying conflicting transaction", zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func (s *Store) view(fn func(*badger.Txn) error) error {
	if s.closed.Load() {
		return status.ErrClosed
	}
	return s.db.View(fn)
}

func (s *Store) Mkdir(ctx context.Context, dir string) error {
	dir = vfs.Clean(dir)
	if dir == "" {
		return status.ErrExists.Wrap(fmt.Errorf("%q", "/"))
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := requireDir(txn, parent(dir)); err != nil {
			return err
		}
		_, err := getInode(txn, dir)
		if err == nil {
			return status.ErrExists.Wrap(fmt.Errorf("%q", dir))
		}
		if !errors.Is(err, status.ErrNotExist) {
			return err
		}
		return setInode(txn, dir, inode{Dir: true, ModTime: time.Now().UTC()})
	})
}

func (s *Store) WriteFile(ctx context.Context, name string, content []byte) error {
	name = vfs.Clean(name)
	if name == "" {
		return status.ErrIsDir.Wrap(fmt.Errorf("%q", "/"))
	}
	if s.inMemory && len(content) > MaxInMemoryFileSize {
		return status.ErrTooLarge.Wrap(fmt.Errorf("%q: %d bytes, in-memory store accepts at most %d", name, len(content), MaxInMemoryFileSize))
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := requireDir(txn, parent(name)); err != nil {
			return err
		}
		existing, err := getInode(txn, name)
		switch {
		case err == nil && existing.Dir:
			return status.ErrIsDir.Wrap(fmt.Errorf("%q", name))
		case err != nil && !errors.Is(err, status.ErrNotExist):
			return err
		}
		if err = setInode(txn, name, inode{Size: int64(len(content)), ModTime: time.Now().UTC()}); err != nil {
			return err
		}
		return txn.Set(contentKey(name), content)
	})
}

func (s *Store) ReadFile(_ context.Context, name string) ([]byte, error) {
	name = vfs.Clean(name)
	var content []byte
	err := s.view(func(txn *badger.Txn) error {
		n, err := getInode(txn, name)
		if err != nil {
			return err
		}
		if n.Dir {
			return status.ErrIsDir.Wrap(fmt.Errorf("%q", name))
		}
		item, err := txn.Get(contentKey(name))
		if err != nil {
			return badgerRewriteError(name, err)
		}
		content, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = []byte{}
	}
	return content, nil
}

func (s *Store) Stat(_ context.Context, name string) (vfs.FileInfo, error) {
	name = vfs.Clean(name)
	var info vfs.FileInfo
	err := s.view(func(txn *badger.Txn) error {
		n, err := getInode(txn, name)
		if err != nil {
			return err
		}
		info = n.fileInfo(path.Base("/" + name))
		return nil
	})
	return info, err
}

func (s *Store) ReadDir(_ context.Context, dir string) ([]vfs.FileInfo, error) {
	dir = vfs.Clean(dir)
	prefix := string(inodePref[:])
	if dir != "" {
		prefix += dir + "/"
	}
	var entries []vfs.FileInfo
	err := s.view(func(txn *badger.Txn) error {
		if err := requireDir(txn, dir); err != nil {
			return err
		}
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         []byte(prefix),
		})
		defer it.Close()

		// keys are sorted, hence children come out sorted by name
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			rel := string(item.Key()[len(prefix):])
			if rel == "" || strings.Contains(rel, "/") {
				continue
			}
			var n inode
			if err := item.Value(func(val []byte) error {
				return jsoniter.Unmarshal(val, &n)
			}); err != nil {
				return fmt.Errorf("decode inode %q: %w", rel, err)
			}
			entries = append(entries, n.fileInfo(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (n inode) fileInfo(name string) vfs.FileInfo {
	return vfs.FileInfo{
		Name:    name,
		Size:    n.Size,
		IsDir:   n.Dir,
		ModTime: n.ModTime,
	}
}
