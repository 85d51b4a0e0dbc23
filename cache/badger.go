// ABOUTME: In-memory badger implementation of the query cache
// ABOUTME: Entries expire after a stale time; invalidation scans keys by prefix
package cache

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// BadgerStore keeps cached reads in an in-memory badger database. Nothing is
// written to disk.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenMemory opens an in-memory store. Entries older than ttl read as missing;
// a ttl of zero keeps entries until invalidated. logger may be nil.
func OpenMemory(ttl time.Duration, logger *log.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger{logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	return &BadgerStore{db: db, ttl: ttl}, nil
}

func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s *BadgerStore) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) Invalidate(prefix string) error {
	keys, err := s.keysWithPrefix(prefix)
	if err != nil {
		return fmt.Errorf("failed to scan cache prefix %q: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("failed to invalidate %q: %w", k, err)
		}
	}
	return wb.Flush()
}

// Keys returns every live key (for debugging and tests).
func (s *BadgerStore) Keys() ([]string, error) {
	raw, err := s.keysWithPrefix("")
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = string(k)
	}
	return keys, nil
}

func (s *BadgerStore) keysWithPrefix(prefix string) ([][]byte, error) {
	var matched [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			if item.IsDeletedOrExpired() {
				continue
			}
			k := item.KeyCopy(nil)
			if prefix == "" || HasPrefix(string(k), prefix) {
				matched = append(matched, k)
			}
		}
		return nil
	})
	return matched, err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts the app logger to badger.Logger. Badger's info lines are
// logged at debug.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Errorf(format, args...)
	}
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Warnf(format, args...)
	}
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Debugf(format, args...)
	}
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Debugf(format, args...)
	}
}
