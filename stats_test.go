package recipebook

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves fixed prompt counts and records every filter it receives.
type fakeCatalog struct {
	counts  map[string]int
	filters [][]string
	err     error
}

func (c *fakeCatalog) AvailableItems(_ context.Context, ids []string) ([]string, []DatasetInfo, error) {
	c.filters = append(c.filters, ids)
	if c.err != nil {
		return nil, nil, c.err
	}
	var outIDs []string
	var infos []DatasetInfo
	for id, n := range c.counts {
		if ids != nil && !slices.Contains(ids, id) {
			continue
		}
		outIDs = append(outIDs, id)
		infos = append(infos, DatasetInfo{ID: id, Name: id, PromptCount: n})
	}
	return outIDs, infos, nil
}

func TestDeriveStats_ListCounts(t *testing.T) {
	t.Parallel()
	f := Fields{
		Name:            "R",
		Tags:            []string{"a", "b"},
		Datasets:        []string{"d1"},
		PromptTemplates: []string{"p1", "p2", "p3"},
		Metrics:         []string{"m"},
	}
	st, err := DeriveStats(context.Background(), f, map[string]int{"d1": 7}, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		NumTags:            2,
		NumDatasets:        1,
		NumPromptTemplates: 3,
		NumMetrics:         1,
		NumAttackModules:   0,
		NumDatasetsPrompts: map[string]int{"d1": 7},
	}, st)
}

func TestDeriveStats_RestrictedLookup(t *testing.T) {
	t.Parallel()
	cat := &fakeCatalog{counts: map[string]int{"d1": 10, "d2": 20, "other": 5}}
	f := Fields{Name: "R", Datasets: []string{"d1", "missing"}}
	st, err := DeriveStats(context.Background(), f, nil, cat)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d1": 10, "missing": 0}, st.NumDatasetsPrompts)
	require.Len(t, cat.filters, 1)
	assert.Equal(t, []string{"d1", "missing"}, cat.filters[0])
}

func TestDeriveStats_EquivalentLookups(t *testing.T) {
	t.Parallel()
	cat := &fakeCatalog{counts: map[string]int{"d1": 10, "d2": 20, "d3": 30}}
	f := Fields{Name: "R", Datasets: []string{"d3", "d1", "zz"}}
	full, err := DatasetPromptCounts(context.Background(), cat)
	require.NoError(t, err)
	a, err := DeriveStats(context.Background(), f, full, cat)
	require.NoError(t, err)
	b, err := DeriveStats(context.Background(), f, nil, cat)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveStats_NoDatasets(t *testing.T) {
	t.Parallel()
	cat := &fakeCatalog{}
	st, err := DeriveStats(context.Background(), Fields{Name: "R"}, nil, cat)
	require.NoError(t, err)
	assert.NotNil(t, st.NumDatasetsPrompts)
	assert.Empty(t, st.NumDatasetsPrompts)
	assert.Empty(t, cat.filters)
}

func TestDeriveStats_CatalogErrors(t *testing.T) {
	t.Parallel()
	f := Fields{Name: "R", Datasets: []string{"d"}}
	boom := errors.New("boom")
	_, err := DeriveStats(context.Background(), f, nil, &fakeCatalog{err: boom})
	require.ErrorIs(t, err, boom)

	_, err = DatasetPromptCounts(context.Background(), &fakeCatalog{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestDeriveStats_NilCatalog(t *testing.T) {
	t.Parallel()
	f := Fields{Name: "R", Datasets: []string{"d1", "d2"}}
	restricted, err := DeriveStats(context.Background(), f, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d1": 0, "d2": 0}, restricted.NumDatasetsPrompts)

	full, err := DatasetPromptCounts(context.Background(), nil)
	require.NoError(t, err)
	precomputed, err := DeriveStats(context.Background(), f, full, nil)
	require.NoError(t, err)
	assert.Equal(t, precomputed, restricted)
}

func TestDatasetPromptCounts_NilCatalog(t *testing.T) {
	t.Parallel()
	counts, err := DatasetPromptCounts(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}
