package bdgr

import (
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/dlogger"
)

// Option for a badger-backed project store
type Option func(*Store)

type storeOptions struct {
	inMemory   bool
	syncWrites bool
	retries    uint64
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		syncWrites: true,
		retries:    defaultConflictRetries,
	}
}

// Logger injects a logger, also used for badger's own messages
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		s.l = dlogger.Or(l)
	}
}

// InMemory keeps the store in memory only. Intended for tests.
//
// An in-memory store has no value log: files larger than MaxInMemoryFileSize
// are rejected with status.ErrTooLarge.
func InMemory(enabled bool) Option {
	return func(s *Store) {
		s.inMemory = enabled
	}
}

// SyncWrites makes every write durable before returning (the default)
func SyncWrites(enabled bool) Option {
	return func(s *Store) {
		s.syncWrites = enabled
	}
}

// ConflictRetries sets how many times a conflicting transaction is retried
func ConflictRetries(retries uint64) Option {
	return func(s *Store) {
		s.retries = retries
	}
}

func (s *Store) badgerOptions(dir string) badger.Options {
	opts := badger.DefaultOptions(dir)
	if s.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	return opts.
		WithSyncWrites(s.syncWrites && !s.inMemory).
		WithLoggingLevel(badger.WARNING).
		WithLogger(badgerLogger{s: s.l.Sugar()})
}

// badgerLogger routes badger messages to zap
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.s.Errorf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.s.Warnf(f, v...) }
func (b badgerLogger) Infof(f string, v ...interface{})    { b.s.Debugf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...interface{})   { b.s.Debugf(f, v...) }
