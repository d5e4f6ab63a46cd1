package recipebook

import (
	"fmt"

	"github.com/skosovsky/recipebook/internal/cast"
)

// Payload returns the storage representation of the fields. Stats are never part of it.
func (f Fields) Payload() map[string]any {
	return map[string]any{
		"id":               f.ID,
		"name":             f.Name,
		"description":      f.Description,
		"tags":             nonNil(f.Tags),
		"categories":       nonNil(f.Categories),
		"datasets":         nonNil(f.Datasets),
		"prompt_templates": nonNil(f.PromptTemplates),
		"metrics":          nonNil(f.Metrics),
		"attack_modules":   nonNil(f.AttackModules),
		"grading_scale":    f.GradingScale,
	}
}

// FieldsFromPayload decodes a stored record. Unknown keys (including a stale "stats") are ignored;
// missing lists decode as empty. Wrong value types return ErrInvalidRecord.
func FieldsFromPayload(p map[string]any) (Fields, error) {
	var f Fields
	var ok bool
	if f.ID, ok = cast.ToString(p["id"]); !ok {
		return Fields{}, invalidField("id")
	}
	if f.Name, ok = cast.ToString(p["name"]); !ok {
		return Fields{}, invalidField("name")
	}
	if f.Description, ok = cast.ToString(p["description"]); !ok {
		return Fields{}, invalidField("description")
	}
	lists := []struct {
		key string
		dst *[]string
	}{
		{"tags", &f.Tags},
		{"categories", &f.Categories},
		{"datasets", &f.Datasets},
		{"prompt_templates", &f.PromptTemplates},
		{"metrics", &f.Metrics},
		{"attack_modules", &f.AttackModules},
	}
	for _, l := range lists {
		if *l.dst, ok = cast.ToStringSlice(p[l.key]); !ok {
			return Fields{}, invalidField(l.key)
		}
	}
	if f.GradingScale, ok = cast.ToStringMap(p["grading_scale"]); !ok {
		return Fields{}, invalidField("grading_scale")
	}
	return f, nil
}

func invalidField(key string) error {
	return fmt.Errorf("%w: field %q has unexpected type", ErrInvalidRecord, key)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
