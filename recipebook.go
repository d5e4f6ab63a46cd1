package recipebook

import (
	"context"
	"time"
)

// Format selects how a record is serialized by a Storage.
type Format string

// Supported record formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Ext returns the file extension for the format, including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// Valid reports whether f is a supported format.
func (f Format) Valid() bool { return f == FormatJSON || f == FormatYAML }

// Fields holds the persisted part of a recipe.
// Dataset, prompt template, metric and attack module entries are identifiers of
// entities owned elsewhere; they are not checked for existence on write.
type Fields struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name" validate:"required"`
	Description     string         `json:"description" yaml:"description"`
	Tags            []string       `json:"tags" yaml:"tags" validate:"dive,required"`
	Categories      []string       `json:"categories" yaml:"categories" validate:"dive,required"`
	Datasets        []string       `json:"datasets" yaml:"datasets" validate:"dive,required"`
	PromptTemplates []string       `json:"prompt_templates" yaml:"prompt_templates" validate:"dive,required"`
	Metrics         []string       `json:"metrics" yaml:"metrics" validate:"dive,required"`
	AttackModules   []string       `json:"attack_modules" yaml:"attack_modules" validate:"dive,required"`
	GradingScale    map[string]any `json:"grading_scale" yaml:"grading_scale"` // passed through unmodified
}

// Stats is derived from a recipe at read time. It is never stored.
type Stats struct {
	NumTags            int            `json:"num_of_tags" yaml:"num_of_tags"`
	NumDatasets        int            `json:"num_of_datasets" yaml:"num_of_datasets"`
	NumPromptTemplates int            `json:"num_of_prompt_templates" yaml:"num_of_prompt_templates"`
	NumMetrics         int            `json:"num_of_metrics" yaml:"num_of_metrics"`
	NumAttackModules   int            `json:"num_of_attack_modules" yaml:"num_of_attack_modules"`
	NumDatasetsPrompts map[string]int `json:"num_of_datasets_prompts" yaml:"num_of_datasets_prompts"` // keyed by Fields.Datasets
}

// Recipe is a fully populated read result: stored fields plus derived stats.
type Recipe struct {
	Fields `yaml:",inline"`
	Stats  Stats `json:"stats" yaml:"stats"`
}

// DatasetInfo is the catalog view of one dataset.
type DatasetInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PromptCount int    `json:"num_of_dataset_prompts"`
}

// Storage creates, reads, deletes and enumerates namespaced records.
// Implementations return ErrObjectNotFound (possibly wrapped) when a record is absent
// and must serialize writes to the same record.
type Storage interface {
	CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format Format) error
	ReadObject(ctx context.Context, namespace, id string, format Format) (map[string]any, error)
	DeleteObject(ctx context.Context, namespace, id string, format Format) error
	// GetObjects returns the record keys ("{id}{ext}") of a namespace in a store-defined order.
	GetObjects(ctx context.Context, namespace string, format Format) ([]string, error)
	ObjectExists(ctx context.Context, namespace, id string, format Format) (bool, error)
}

// DatasetCatalog enumerates datasets with their prompt counts.
// A nil ids filter returns every dataset; otherwise only the listed ids that exist.
type DatasetCatalog interface {
	AvailableItems(ctx context.Context, ids []string) ([]string, []DatasetInfo, error)
}

// Recorder observes the outcome and duration of registry operations.
type Recorder interface {
	ObserveOperation(op string, d time.Duration, err error)
}

// NopRecorder returns a Recorder that discards observations.
func NopRecorder() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, time.Duration, error) {}
