// ABOUTME: BadgerDB store keyed by metadata file path
// ABOUTME: Directory markers are keys ending in a slash with an empty value
package store

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStore keeps each file as one key in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if needed) a BadgerDB directory.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// NewMemoryBadgerStore opens an in-memory BadgerDB.
func NewMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func dirKey(dir string) []byte {
	return []byte(clean(dir) + "/")
}

// Read returns the stored value.
func (s *BadgerStore) Read(_ context.Context, p string) ([]byte, error) {
	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(clean(p)))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotExist
	}
	return result, err
}

// Write stores the value and marks its parent directory in one transaction.
func (s *BadgerStore) Write(_ context.Context, p string, data []byte) error {
	dir, _ := split(p)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(dirKey(dir), nil); err != nil {
			return err
		}
		return txn.Set([]byte(clean(p)), data)
	})
}

// Exists reports whether a file or directory marker is present.
func (s *BadgerStore) Exists(_ context.Context, p string) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		for _, key := range [][]byte{[]byte(clean(p)), dirKey(p)} {
			_, err := txn.Get(key)
			if err == nil {
				found = true
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
	return found, err
}

// List returns the files directly below dir; badger iterates in key order.
func (s *BadgerStore) List(_ context.Context, dir string) ([]string, error) {
	prefix := dirKey(dir)
	var (
		names  []string
		marked bool
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rest := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			switch {
			case rest == "":
				marked = true
			case !strings.Contains(rest, "/"):
				names = append(names, rest)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !marked && len(names) == 0 {
		return nil, ErrNotExist
	}
	return names, nil
}

// EnsureDir records the directory marker.
func (s *BadgerStore) EnsureDir(_ context.Context, dir string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dirKey(dir), nil)
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
