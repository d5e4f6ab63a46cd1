// Package embedstore provides a read-only recipebook.Storage over an fs.FS (e.g. embed.FS).
// Every record is decoded once at construction so malformed files fail fast.
package embedstore

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

var _ recipebook.Storage = (*Store)(nil)

// Store serves records from {root}/{namespace}/{id}.{json|yaml} of an fs.FS. No mutex: contents never change.
type Store struct {
	files map[string][]byte // "namespace/key" → raw bytes
	keys  map[string][]string
}

// New walks fsys under root, validates every .json/.yaml file one directory deep and returns a Store.
func New(fsys fs.FS, root string) (*Store, error) {
	s := &Store{
		files: make(map[string][]byte),
		keys:  make(map[string][]string),
	}
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		format, ok := formatOf(p)
		if !ok {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		namespace, key := path.Split(rel)
		namespace = strings.TrimSuffix(namespace, "/")
		if namespace == "" || strings.Contains(namespace, "/") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if _, err := codec.Unmarshal(format, data); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		s.files[namespace+"/"+key] = data
		s.keys[namespace] = append(s.keys[namespace], key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for ns := range s.keys {
		slices.Sort(s.keys[ns])
	}
	return s, nil
}

// CreateObject always fails with recipebook.ErrReadOnly.
func (s *Store) CreateObject(context.Context, string, string, map[string]any, recipebook.Format) error {
	return recipebook.ErrReadOnly
}

// DeleteObject always fails with recipebook.ErrReadOnly.
func (s *Store) DeleteObject(context.Context, string, string, recipebook.Format) error {
	return recipebook.ErrReadOnly
}

// ReadObject decodes a fresh copy of the record.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	data, ok := s.files[namespace+"/"+recipebook.ObjectKey(id, format)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", recipebook.ErrObjectNotFound, namespace, id)
	}
	return codec.Unmarshal(format, data)
}

// GetObjects returns the sorted keys of namespace with the format's extension.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	ext := format.Ext()
	out := make([]string, 0, len(s.keys[namespace]))
	for _, key := range s.keys[namespace] {
		if strings.HasSuffix(key, ext) {
			out = append(out, key)
		}
	}
	return out, nil
}

// ObjectExists reports whether the record is present. O(1) map lookup.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	_, ok := s.files[namespace+"/"+recipebook.ObjectKey(id, format)]
	return ok, nil
}

func formatOf(p string) (recipebook.Format, bool) {
	switch path.Ext(p) {
	case recipebook.FormatJSON.Ext():
		return recipebook.FormatJSON, true
	case recipebook.FormatYAML.Ext():
		return recipebook.FormatYAML, true
	default:
		return "", false
	}
}
