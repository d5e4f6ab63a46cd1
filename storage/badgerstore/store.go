// Package badgerstore provides a BadgerDB-backed recipebook.Storage.
// Keys are "{namespace}/{id}{ext}"; values are the encoded record.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

var _ recipebook.Storage = (*Store)(nil)

// Store implements recipebook.Storage on a badger.DB.
// Each record write is a single transaction.
type Store struct {
	db    *badger.DB
	owned bool
}

// New wraps an open database. The caller keeps ownership; Close is a no-op.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Open opens a database at path (in memory when path is empty) owned by the Store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open %q: %w", path, err)
	}
	return &Store{db: db, owned: true}, nil
}

// Close closes the database if the Store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// CreateObject stores the encoded record, replacing any existing value.
func (s *Store) CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format recipebook.Format) error {
	key, err := objectKey(ctx, namespace, id, format)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(format, payload)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("badgerstore: set %s: %w", key, err)
		}
		return nil
	})
}

// ReadObject decodes the stored record.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	key, err := objectKey(ctx, namespace, id, format)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", recipebook.ErrObjectNotFound, key)
		}
		if err != nil {
			return fmt.Errorf("badgerstore: get %s: %w", key, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal(format, data)
}

// DeleteObject removes the record. A missing key is reported as recipebook.ErrObjectNotFound.
func (s *Store) DeleteObject(ctx context.Context, namespace, id string, format recipebook.Format) error {
	key, err := objectKey(ctx, namespace, id, format)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", recipebook.ErrObjectNotFound, key)
			}
			return fmt.Errorf("badgerstore: get %s: %w", key, err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("badgerstore: delete %s: %w", key, err)
		}
		return nil
	})
}

// GetObjects returns the record keys of a namespace in key order.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	prefix := []byte(namespace + "/")
	ext := format.Ext()
	keys := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			name := string(it.Item().Key()[len(prefix):])
			if strings.HasSuffix(name, ext) {
				keys = append(keys, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badgerstore: list %s: %w", namespace, err)
	}
	return keys, nil
}

// ObjectExists reports whether the key is present.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	key, err := objectKey(ctx, namespace, id, format)
	if err != nil {
		return false, err
	}
	var found bool
	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("badgerstore: get %s: %w", key, err)
	}
	return found, nil
}

func objectKey(ctx context.Context, namespace, id string, format recipebook.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(id); err != nil {
		return nil, err
	}
	return []byte(namespace + "/" + recipebook.ObjectKey(id, format)), nil
}
