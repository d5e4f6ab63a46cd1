package recipebook

import (
	"context"
	"fmt"
)

// DeriveStats computes the statistics block of a recipe.
//
// counts is a precomputed dataset→prompt-count map covering the whole catalog (see
// DatasetPromptCounts). When counts is nil, the catalog is queried for exactly
// f.Datasets instead. Either way every entry of f.Datasets is a key of
// NumDatasetsPrompts, with 0 for datasets the catalog does not know. A nil
// catalog knows no datasets.
func DeriveStats(ctx context.Context, f Fields, counts map[string]int, catalog DatasetCatalog) (Stats, error) {
	st := Stats{
		NumTags:            len(f.Tags),
		NumDatasets:        len(f.Datasets),
		NumPromptTemplates: len(f.PromptTemplates),
		NumMetrics:         len(f.Metrics),
		NumAttackModules:   len(f.AttackModules),
		NumDatasetsPrompts: make(map[string]int, len(f.Datasets)),
	}
	if counts == nil && len(f.Datasets) > 0 && catalog != nil {
		_, infos, err := catalog.AvailableItems(ctx, f.Datasets)
		if err != nil {
			return Stats{}, fmt.Errorf("recipebook: dataset lookup: %w", err)
		}
		counts = promptCounts(infos)
	}
	for _, d := range f.Datasets {
		st.NumDatasetsPrompts[d] = counts[d]
	}
	return st, nil
}

// DatasetPromptCounts scans the full catalog once and maps dataset id to prompt count.
// The result is never nil, so DeriveStats treats it as precomputed even for an empty catalog.
func DatasetPromptCounts(ctx context.Context, catalog DatasetCatalog) (map[string]int, error) {
	if catalog == nil {
		return map[string]int{}, nil
	}
	_, infos, err := catalog.AvailableItems(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recipebook: dataset catalog scan: %w", err)
	}
	return promptCounts(infos), nil
}

func promptCounts(infos []DatasetInfo) map[string]int {
	out := make(map[string]int, len(infos))
	for _, d := range infos {
		out[d.ID] = d.PromptCount
	}
	return out
}
