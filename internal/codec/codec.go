// Package codec encodes and decodes record payloads for the supported storage formats.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/skosovsky/recipebook"
)

// ErrUnsupportedFormat is returned for formats other than JSON and YAML.
var ErrUnsupportedFormat = errors.New("codec: unsupported format")

// Marshal encodes payload in the given format. JSON output is indented for readable files.
func Marshal(format recipebook.Format, payload map[string]any) ([]byte, error) {
	switch format {
	case recipebook.FormatJSON:
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("codec: encode json: %w", err)
		}
		return data, nil
	case recipebook.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("codec: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("codec: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Unmarshal decodes a payload. Empty input yields an empty map.
// Malformed input is reported as recipebook.ErrInvalidRecord.
func Unmarshal(format recipebook.Format, data []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		if !format.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		return out, nil
	}
	switch format {
	case recipebook.FormatJSON:
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: %w", recipebook.ErrInvalidRecord, err)
		}
	case recipebook.FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: %w", recipebook.ErrInvalidRecord, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return out, nil
}

// Clone deep-copies a payload by round-tripping it through the format.
func Clone(format recipebook.Format, payload map[string]any) (map[string]any, error) {
	data, err := Marshal(format, payload)
	if err != nil {
		return nil, err
	}
	return Unmarshal(format, data)
}
