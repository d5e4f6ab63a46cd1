// Package metric defines the scorer interface and an in-process registry of named scorers.
package metric

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicate is returned when a metric with the same id is already registered.
	ErrDuplicate = errors.New("metric: already registered")
	// ErrNotFound is returned for an unknown metric id.
	ErrNotFound = errors.New("metric: not found")
)

// Metadata describes a metric.
type Metadata struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Metric scores model predictions against targets.
// Results returns a JSON-serializable map keyed by the metric's result name.
type Metric interface {
	Metadata() Metadata
	Results(ctx context.Context, prompts, predictions, targets []string) (map[string]any, error)
}

// Registry holds metrics by id. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry returns a registry holding the given metrics. Duplicate ids are reported as ErrDuplicate.
func NewRegistry(metrics ...Metric) (*Registry, error) {
	r := &Registry{metrics: make(map[string]Metric, len(metrics))}
	for _, m := range metrics {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m under its metadata id.
func (r *Registry) Register(m Metric) error {
	id := m.Metadata().ID
	if id == "" {
		return errors.New("metric: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, id)
	}
	r.metrics[id] = m
	return nil
}

// Get returns the metric registered under id.
func (r *Registry) Get(id string) (Metric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return m, nil
}

// Names returns the registered ids in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.metrics))
	for id := range r.metrics {
		names = append(names, id)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// List returns the metadata of every registered metric, ordered by id.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metadata, 0, len(r.metrics))
	for _, m := range r.metrics {
		out = append(out, m.Metadata())
	}
	slices.SortFunc(out, func(a, b Metadata) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Delete removes the metric registered under id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(r.metrics, id)
	return nil
}
