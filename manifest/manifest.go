// Package manifest parses recipe manifests (YAML, or JSON as its subset) into recipebook.Fields.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/recipebook"
)

// fileManifest is the manifest shape. A "stats" block exported with a recipe is accepted and dropped;
// stats are always derived on read.
type fileManifest struct {
	recipebook.Fields `yaml:",inline"`
	Stats             map[string]any `yaml:"stats"`
}

// ParseBytes parses a manifest. Unknown keys and a missing name are rejected with recipebook.ErrInvalidManifest.
func ParseBytes(data []byte) (recipebook.Fields, error) {
	var m fileManifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return recipebook.Fields{}, fmt.Errorf("%w: empty document", recipebook.ErrInvalidManifest)
		}
		return recipebook.Fields{}, fmt.Errorf("%w: %w", recipebook.ErrInvalidManifest, err)
	}
	if err := recipebook.ValidateFields(m.Fields); err != nil {
		return recipebook.Fields{}, fmt.Errorf("%w: %w", recipebook.ErrInvalidManifest, err)
	}
	return m.Fields, nil
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) (recipebook.Fields, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the caller
	if err != nil {
		return recipebook.Fields{}, fmt.Errorf("manifest: read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseFS reads and parses a manifest from fs.FS (e.g. embed.FS).
func ParseFS(fsys fs.FS, name string) (recipebook.Fields, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return recipebook.Fields{}, fmt.Errorf("manifest: read fs: %w", err)
	}
	return ParseBytes(data)
}
