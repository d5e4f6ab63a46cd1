package cast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		v      any
		want   int64
		wantOK bool
	}{
		{"int", 42, 42, true},
		{"int64", int64(-7), -7, true},
		{"int32", int32(3), 3, true},
		{"uint32", uint32(9), 9, true},
		{"uint64 overflow", uint64(math.MaxUint64), math.MaxInt64, true},
		{"json number", float64(128), 128, true},
		{"float32", float32(64), 64, true},
		{"float too large", 1e30, 0, false},
		{"float too small", -1e30, 0, false},
		{"float 2^63", math.Pow(2, 63), 0, false},
		{"float min int64", float64(math.MinInt64), math.MinInt64, true},
		{"float32 too large", float32(1e30), 0, false},
		{"fractional", 1.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"string", "12", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToInt64(tt.v)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToStringSlice(t *testing.T) {
	t.Parallel()
	got, ok := ToStringSlice([]any{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = ToStringSlice([]string{"x"})
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, got)

	got, ok = ToStringSlice(nil)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, ok = ToStringSlice([]any{"a", 1})
	assert.False(t, ok)

	_, ok = ToStringSlice("a")
	assert.False(t, ok)
}

func TestToString(t *testing.T) {
	t.Parallel()
	s, ok := ToString("abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", s)

	s, ok = ToString(nil)
	assert.True(t, ok)
	assert.Empty(t, s)

	_, ok = ToString(3)
	assert.False(t, ok)
}

func TestToStringMap(t *testing.T) {
	t.Parallel()
	m, ok := ToStringMap(map[string]any{"A": 1})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"A": 1}, m)

	m, ok = ToStringMap(nil)
	assert.True(t, ok)
	assert.Nil(t, m)

	_, ok = ToStringMap(map[any]any{1: "x"})
	assert.False(t, ok)
}

func TestSliceLen(t *testing.T) {
	t.Parallel()
	n, ok := SliceLen([]any{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = SliceLen(nil)
	assert.True(t, ok)
	assert.Zero(t, n)

	_, ok = SliceLen("abc")
	assert.False(t, ok)
}
