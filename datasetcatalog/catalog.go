// Package datasetcatalog implements recipebook.DatasetCatalog over dataset records kept in a Storage namespace.
package datasetcatalog

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/cast"
)

// DefaultNamespace is the storage namespace holding dataset records.
const DefaultNamespace = "datasets"

var _ recipebook.DatasetCatalog = (*Catalog)(nil)

// Catalog reads dataset records on every call. It holds no state besides its configuration.
type Catalog struct {
	store     recipebook.Storage
	namespace string
	format    recipebook.Format
	limit     int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithNamespace sets the dataset namespace. Empty is ignored.
func WithNamespace(ns string) Option {
	return func(c *Catalog) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithFormat sets the record format. Default FormatJSON.
func WithFormat(f recipebook.Format) Option {
	return func(c *Catalog) {
		if f.Valid() {
			c.format = f
		}
	}
}

// WithConcurrency bounds parallel record reads. n < 1 is ignored.
func WithConcurrency(n int) Option {
	return func(c *Catalog) {
		if n >= 1 {
			c.limit = n
		}
	}
}

// New creates a Catalog over store. Panics if store is nil.
func New(store recipebook.Storage, opts ...Option) *Catalog {
	if store == nil {
		panic("datasetcatalog: Storage must not be nil")
	}
	c := &Catalog{
		store:     store,
		namespace: DefaultNamespace,
		format:    recipebook.FormatJSON,
		limit:     runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AvailableItems returns the ids and descriptors of the stored datasets in store order.
// A nil ids selects every dataset; otherwise only the listed ids that exist are returned.
// Prompt counts come from "num_of_dataset_prompts" when present, else from the length of "examples".
func (c *Catalog) AvailableItems(ctx context.Context, ids []string) ([]string, []recipebook.DatasetInfo, error) {
	keys, err := c.store.GetObjects(ctx, c.namespace, c.format)
	if err != nil {
		return nil, nil, fmt.Errorf("datasetcatalog: list %s: %w", c.namespace, err)
	}
	selected := make([]string, 0, len(keys))
	for _, key := range keys {
		if recipebook.IsReservedKey(key) {
			continue
		}
		id := recipebook.KeyStem(key)
		if ids != nil && !slices.Contains(ids, id) {
			continue
		}
		selected = append(selected, id)
	}

	infos := make([]recipebook.DatasetInfo, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)
	for i, id := range selected {
		g.Go(func() error {
			info, err := c.readInfo(gctx, id)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return selected, infos, nil
}

func (c *Catalog) readInfo(ctx context.Context, id string) (recipebook.DatasetInfo, error) {
	p, err := c.store.ReadObject(ctx, c.namespace, id, c.format)
	if err != nil {
		return recipebook.DatasetInfo{}, fmt.Errorf("datasetcatalog: read %s: %w", id, err)
	}
	name, ok := cast.ToString(p["name"])
	if !ok {
		return recipebook.DatasetInfo{}, fmt.Errorf("%w: dataset %s: field %q has unexpected type", recipebook.ErrInvalidRecord, id, "name")
	}
	info := recipebook.DatasetInfo{ID: id, Name: name}
	if v, present := p["num_of_dataset_prompts"]; present {
		n, ok := cast.ToInt64(v)
		if !ok || n < 0 {
			return recipebook.DatasetInfo{}, fmt.Errorf("%w: dataset %s: invalid num_of_dataset_prompts", recipebook.ErrInvalidRecord, id)
		}
		info.PromptCount = int(n)
		return info, nil
	}
	n, ok := cast.SliceLen(p["examples"])
	if !ok {
		return recipebook.DatasetInfo{}, fmt.Errorf("%w: dataset %s: examples is not a list", recipebook.ErrInvalidRecord, id)
	}
	info.PromptCount = n
	return info, nil
}
