// Package memstore provides an in-memory recipebook.Storage.
// Records are kept encoded, so callers never share maps with the store.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

var _ recipebook.Storage = (*Store)(nil)

// Store is a concurrency-safe map of namespace → key → encoded record.
type Store struct {
	mu      sync.RWMutex
	objects map[string]map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{objects: make(map[string]map[string][]byte)}
}

// CreateObject encodes payload and stores it, replacing any existing record.
func (s *Store) CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format recipebook.Format) error {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return err
	}
	data, err := codec.Marshal(format, payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.objects[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.objects[namespace] = ns
	}
	ns[recipebook.ObjectKey(id, format)] = data
	return nil
}

// ReadObject decodes the stored record.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.objects[namespace][recipebook.ObjectKey(id, format)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", recipebook.ErrObjectNotFound, namespace, id)
	}
	return codec.Unmarshal(format, data)
}

// DeleteObject removes the record.
func (s *Store) DeleteObject(ctx context.Context, namespace, id string, format recipebook.Format) error {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return err
	}
	key := recipebook.ObjectKey(id, format)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[namespace][key]; !ok {
		return fmt.Errorf("%w: %s/%s", recipebook.ErrObjectNotFound, namespace, id)
	}
	delete(s.objects[namespace], key)
	return nil
}

// GetObjects returns the sorted keys of namespace that carry the format's extension.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	ext := format.Ext()
	s.mu.RLock()
	keys := make([]string, 0, len(s.objects[namespace]))
	for key := range s.objects[namespace] {
		if strings.HasSuffix(key, ext) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

// ObjectExists reports whether the record is stored.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[namespace][recipebook.ObjectKey(id, format)]
	return ok, nil
}

func checkArgs(ctx context.Context, namespace, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return err
	}
	return recipebook.ValidateID(id)
}
