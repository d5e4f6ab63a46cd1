package badgerstore

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/recipebook"
)

func newInMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newInMemoryStore(t)
	ctx := context.Background()
	payload := map[string]any{"id": "r", "name": "R", "datasets": []string{"d1", "d2"}}
	require.NoError(t, s.CreateObject(ctx, "recipes", "r", payload, recipebook.FormatJSON))

	got, err := s.ReadObject(ctx, "recipes", "r", recipebook.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "R", got["name"])
	assert.Equal(t, []any{"d1", "d2"}, got["datasets"])

	ok, err := s.ObjectExists(ctx, "recipes", "r", recipebook.FormatJSON)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBadgerStore_DeleteAndNotFound(t *testing.T) {
	t.Parallel()
	s := newInMemoryStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateObject(ctx, "recipes", "r", map[string]any{}, recipebook.FormatJSON))
	require.NoError(t, s.DeleteObject(ctx, "recipes", "r", recipebook.FormatJSON))

	_, err := s.ReadObject(ctx, "recipes", "r", recipebook.FormatJSON)
	require.ErrorIs(t, err, recipebook.ErrObjectNotFound)
	require.ErrorIs(t, s.DeleteObject(ctx, "recipes", "r", recipebook.FormatJSON), recipebook.ErrObjectNotFound)

	ok, err := s.ObjectExists(ctx, "recipes", "r", recipebook.FormatJSON)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerStore_GetObjectsScopedToNamespace(t *testing.T) {
	t.Parallel()
	s := newInMemoryStore(t)
	ctx := context.Background()
	for _, id := range []string{"b", "a"} {
		require.NoError(t, s.CreateObject(ctx, "recipes", id, map[string]any{}, recipebook.FormatJSON))
	}
	require.NoError(t, s.CreateObject(ctx, "recipes", "y", map[string]any{}, recipebook.FormatYAML))
	require.NoError(t, s.CreateObject(ctx, "recipes-old", "z", map[string]any{}, recipebook.FormatJSON))

	keys, err := s.GetObjects(ctx, "recipes", recipebook.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, keys)
}

func TestBadgerStore_BorrowedDBNotClosed(t *testing.T) {
	t.Parallel()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := New(db)
	require.NoError(t, s.Close())
	require.NoError(t, s.CreateObject(context.Background(), "ns", "x", map[string]any{}, recipebook.FormatJSON))
}
