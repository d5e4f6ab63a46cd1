package datasetcatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/storage/memstore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	records := map[string]map[string]any{
		"arc":    {"id": "arc", "name": "ARC", "num_of_dataset_prompts": 100},
		"mmlu":   {"id": "mmlu", "name": "MMLU", "examples": []any{map[string]any{"input": "a"}, map[string]any{"input": "b"}}},
		"empty":  {"id": "empty", "name": "Empty"},
		"__meta": {"cache": true},
	}
	for id, p := range records {
		require.NoError(t, s.CreateObject(ctx, DefaultNamespace, id, p, recipebook.FormatJSON))
	}
	return s
}

func TestCatalog_AllItems(t *testing.T) {
	t.Parallel()
	c := New(seed(t), WithConcurrency(2))
	ids, infos, err := c.AvailableItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"arc", "empty", "mmlu"}, ids)
	require.Len(t, infos, 3)
	assert.Equal(t, recipebook.DatasetInfo{ID: "arc", Name: "ARC", PromptCount: 100}, infos[0])
	assert.Equal(t, 0, infos[1].PromptCount)
	assert.Equal(t, 2, infos[2].PromptCount)
}

func TestCatalog_FilterDropsUnknown(t *testing.T) {
	t.Parallel()
	c := New(seed(t))
	ids, infos, err := c.AvailableItems(context.Background(), []string{"mmlu", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mmlu"}, ids)
	require.Len(t, infos, 1)
	assert.Equal(t, "MMLU", infos[0].Name)

	ids, infos, err = c.AvailableItems(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, infos)
}

func TestCatalog_InvalidRecord(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		count any
	}{
		{"string", "lots"},
		{"negative", -3},
		{"fractional", 2.5},
		{"beyond int64", 1e30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := memstore.New()
			require.NoError(t, s.CreateObject(context.Background(), DefaultNamespace, "bad",
				map[string]any{"name": "Bad", "num_of_dataset_prompts": tt.count}, recipebook.FormatJSON))
			_, _, err := New(s).AvailableItems(context.Background(), nil)
			require.ErrorIs(t, err, recipebook.ErrInvalidRecord)
		})
	}
}

func TestCatalog_CustomNamespaceAndFormat(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	require.NoError(t, s.CreateObject(context.Background(), "data", "d", map[string]any{"name": "D", "num_of_dataset_prompts": 3}, recipebook.FormatYAML))
	ids, infos, err := New(s, WithNamespace("data"), WithFormat(recipebook.FormatYAML)).AvailableItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, ids)
	assert.Equal(t, 3, infos[0].PromptCount)
}

func TestCatalog_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(seed(t)).AvailableItems(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
