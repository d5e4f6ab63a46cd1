package recipebook

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// symbolDropper blanks symbols that slug.Make would otherwise spell out as English words.
var symbolDropper = strings.NewReplacer("&", " ", "@", " ")

// Slugify derives a lowercase, path-safe identifier from a display name.
// "Bias & Fairness Benchmark" becomes "bias-fairness-benchmark". Underscores
// become dashes, so a slug never contains "__" and is never a reserved key.
func Slugify(name string) string {
	s := strings.ToLower(slug.Make(symbolDropper.Replace(name)))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '-' }), "-")
}

// ValidateID checks that id is safe for use in paths, URLs and storage keys.
// Rejects empty ids, "." and "..", path separators, colons and control characters.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidName)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, id)
	}
	for _, r := range id {
		if r == '/' || r == '\\' || r == ':' || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, id, r)
		}
	}
	return nil
}

// ObjectKey returns the storage key of a record: "{id}{ext}".
func ObjectKey(id string, format Format) string {
	return id + format.Ext()
}

// KeyStem strips the extension from a storage key.
func KeyStem(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

// IsReservedKey reports whether a storage key belongs to an internal record
// (any key containing "__") that listings must skip.
func IsReservedKey(key string) bool {
	return strings.Contains(key, "__")
}

// ValidateFields checks the caller-supplied fields of a recipe.
func ValidateFields(f Fields) error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFields, err)
	}
	return nil
}
