// Package recipebook provides a registry of LLM evaluation recipes.
// A recipe is a named bundle referencing datasets, prompt templates, metrics
// and attack modules. Recipes are persisted one record per recipe through a
// pluggable Storage; statistics (reference counts and per-dataset prompt counts)
// are derived on every read by cross-referencing a DatasetCatalog and are never
// written back.
package recipebook
