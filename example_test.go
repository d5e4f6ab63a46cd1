package recipebook_test

import (
	"context"
	"fmt"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/datasetcatalog"
	"github.com/skosovsky/recipebook/storage/memstore"
)

func ExampleRegistry_Create() {
	ctx := context.Background()
	reg := recipebook.New(memstore.New(), nil)
	id, err := reg.Create(ctx, recipebook.Fields{Name: "Bias & Fairness Benchmark"})
	if err != nil {
		panic(err)
	}
	fmt.Println(id)
	// Output: bias-fairness-benchmark
}

func ExampleRegistry_Load() {
	ctx := context.Background()
	store := memstore.New()
	_ = store.CreateObject(ctx, "datasets", "arc", map[string]any{"name": "ARC", "num_of_dataset_prompts": 120}, recipebook.FormatJSON)
	reg := recipebook.New(store, datasetcatalog.New(store))

	id, _ := reg.Create(ctx, recipebook.Fields{Name: "Reasoning", Datasets: []string{"arc", "gsm8k"}})
	rec, err := reg.Load(ctx, id)
	if err != nil {
		panic(err)
	}
	fmt.Println(rec.Stats.NumDatasets, rec.Stats.NumDatasetsPrompts["arc"], rec.Stats.NumDatasetsPrompts["gsm8k"])
	// Output: 2 120 0
}

func ExampleSlugify() {
	fmt.Println(recipebook.Slugify("Item Category"))
	// Output: item-category
}
