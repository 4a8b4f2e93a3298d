package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/zero-day-ai/xplor/graph"
)

const badgerPrefix = "graph/"

// BadgerConfig configures a Badger store.
type BadgerConfig struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string `yaml:"path"`

	// InMemory keeps the database in memory. Data is lost on Close.
	InMemory bool `yaml:"in_memory"`

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool `yaml:"sync_writes"`
}

// Badger stores graphs in an embedded Badger database, one key per
// collection.
type Badger struct {
	db *badger.DB
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// OpenBadger opens the database described by cfg. A nil logger disables
// Badger's internal logging.
func OpenBadger(cfg BadgerConfig, logger *slog.Logger) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store: badger path is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Badger{db: db}, nil
}

// NewBadger wraps an open database. Close closes db.
func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func badgerKey(collection string) []byte {
	return []byte(badgerPrefix + collection)
}

func (b *Badger) Get(ctx context.Context, collection string) (*graph.Graph, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if b.db.IsClosed() {
		return nil, ErrClosed
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(collection))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", collection, err)
	}
	return decode(collection, data)
}

func (b *Badger) Put(ctx context.Context, collection string, g *graph.Graph) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return ErrClosed
	}
	data, err := encode(g)
	if err != nil {
		return err
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(collection), data)
	}); err != nil {
		return fmt.Errorf("put collection %s: %w", collection, err)
	}
	return nil
}

func (b *Badger) Delete(ctx context.Context, collection string) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(collection))
	}); err != nil {
		return fmt.Errorf("delete collection %s: %w", collection, err)
	}
	return nil
}

func (b *Badger) List(ctx context.Context) ([]string, error) {
	if b.db.IsClosed() {
		return nil, ErrClosed
	}
	var out []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			out = append(out, strings.TrimPrefix(key, badgerPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

// Ping runs an empty read transaction.
func (b *Badger) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	return b.db.View(func(*badger.Txn) error { return nil })
}

func (b *Badger) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}
