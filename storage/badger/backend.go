package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns one BadgerDB instance shared by the task and catalog repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendSettings)

type backendSettings struct {
	logger     *slog.Logger
	syncWrites bool
}

// WithBackendLogger routes badger's internal logging to logger.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(s *backendSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSyncWrites makes every commit wait for fsync.
func WithSyncWrites(sync bool) BackendOption {
	return func(s *backendSettings) {
		s.syncWrites = sync
	}
}

// slogBridge forwards badger log lines to slog.
type slogBridge struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogBridge)(nil)

func (b *slogBridge) Errorf(format string, args ...any) {
	b.logger.Error(fmt.Sprintf(format, args...))
}

func (b *slogBridge) Warningf(format string, args ...any) {
	b.logger.Warn(fmt.Sprintf(format, args...))
}

func (b *slogBridge) Infof(format string, args ...any) {
	b.logger.Debug(fmt.Sprintf(format, args...))
}

func (b *slogBridge) Debugf(format string, args ...any) {
	b.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBackend opens the database in dir, creating the directory when
// missing. With inMemory set dir is ignored and nothing touches disk.
func OpenBackend(dir string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	settings := &backendSettings{logger: slog.Default()}
	for _, opt := range opts {
		opt(settings)
	}

	var bopts badger.Options
	if inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(dir).WithSyncWrites(settings.syncWrites)
	}

	logger := settings.logger.With("component", "badger")
	bopts.Logger = &slogBridge{logger: logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(dir, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// view runs fn in a read-only transaction.
func (b *Backend) view(fn func(tx *badger.Txn) error) error {
	return b.db.View(fn)
}

// update runs fn in a read-write transaction committed when fn returns nil.
func (b *Backend) update(fn func(tx *badger.Txn) error) error {
	return b.db.Update(fn)
}

// countPrefix returns the number of keys under prefix.
func (b *Backend) countPrefix(prefix []byte) (int, error) {
	count := 0
	err := b.view(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}
