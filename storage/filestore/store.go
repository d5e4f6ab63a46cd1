package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

// Ensures Store implements recipebook.Storage.
var _ recipebook.Storage = (*Store)(nil)

const defaultFileMode fs.FileMode = 0o600

// Store reads and writes records as files under a root directory.
// Writes go through a temp file and rename, so readers never observe a partial record.
type Store struct {
	root string
	mode fs.FileMode
	mu   sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithFileMode sets the permission bits of record files (default 0600).
func WithFileMode(mode fs.FileMode) Option {
	return func(s *Store) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// New creates a Store rooted at dir. The directory is created lazily.
func New(dir string, opts ...Option) *Store {
	s := &Store{root: dir, mode: defaultFileMode}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the root directory.
func (s *Store) Root() string { return s.root }

// CreateObject writes payload to {root}/{namespace}/{id}{ext}, replacing any existing file.
func (s *Store) CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format recipebook.Format) error {
	path, err := s.path(ctx, namespace, id, format)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(format, payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("filestore: create namespace dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("filestore: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		return fmt.Errorf("filestore: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("filestore: rename into %s: %w", path, err)
	}
	return nil
}

// ReadObject reads and decodes the record file.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	path, err := s.path(ctx, namespace, id, format)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(path) // #nosec G304 -- namespace and id pass recipebook.ValidateID
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", recipebook.ErrObjectNotFound, path)
		}
		return nil, fmt.Errorf("filestore: read file: %w", err)
	}
	return codec.Unmarshal(format, data)
}

// DeleteObject removes the record file.
func (s *Store) DeleteObject(ctx context.Context, namespace, id string, format recipebook.Format) error {
	path, err := s.path(ctx, namespace, id, format)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", recipebook.ErrObjectNotFound, path)
		}
		return fmt.Errorf("filestore: remove file: %w", err)
	}
	return nil
}

// GetObjects lists record file names of a namespace in lexical order.
// A namespace that was never written is empty, not an error.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries, err := os.ReadDir(filepath.Join(s.root, namespace))
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("filestore: read namespace dir: %w", err)
	}
	ext := format.Ext()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		keys = append(keys, name)
	}
	return keys, nil
}

// ObjectExists reports whether the record file exists.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	path, err := s.path(ctx, namespace, id, format)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	_, err = os.Stat(path)
	s.mu.RUnlock()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("filestore: stat file: %w", err)
}

func (s *Store) path(ctx context.Context, namespace, id string, format recipebook.Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return "", err
	}
	if err := recipebook.ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.root, namespace, recipebook.ObjectKey(id, format)), nil
}
