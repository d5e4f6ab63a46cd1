// Package cast provides type conversion helpers for decoded JSON/YAML payloads (map[string]any and similar).
package cast

import "math"

// ToInt64 converts a numeric value to int64. JSON numbers decode as float64, YAML integers as int.
// Clamps uint64/uint to math.MaxInt64 when out of range; rejects NaN, Inf, fractional floats
// and floats outside the int64 range.
func ToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(x), true
	case float64:
		return floatToInt64(x)
	case float32:
		return floatToInt64(float64(x))
	default:
		return 0, false
	}
}

// floatToInt64 accepts whole numbers in [math.MinInt64, math.MaxInt64].
// float64(math.MaxInt64) rounds up to 2^63, hence the >= bound.
func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ToStringSlice converts v to []string. Accepts nil, []string or []any where each element is string.
// A nil value yields an empty, non-nil slice.
func ToStringSlice(v any) ([]string, bool) {
	if v == nil {
		return []string{}, true
	}
	if ss, ok := v.([]string); ok {
		return ss, true
	}
	slice, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(slice))
	for _, e := range slice {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// ToString converts v to string. nil yields "".
func ToString(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// ToStringMap converts v to map[string]any. nil yields a nil map.
// YAML mappings with non-string keys are rejected.
func ToStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// SliceLen returns the length of a decoded list value.
func SliceLen(v any) (int, bool) {
	switch s := v.(type) {
	case nil:
		return 0, true
	case []any:
		return len(s), true
	case []map[string]any:
		return len(s), true
	case []string:
		return len(s), true
	default:
		return 0, false
	}
}
