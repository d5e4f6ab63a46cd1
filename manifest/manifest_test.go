package manifest

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/recipebook"
)

//go:embed testdata/*
var testdataFS embed.FS

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseBytes_ValidSimple(t *testing.T) {
	t.Parallel()
	f, err := ParseBytes([]byte("name: Quick Check\ntags: [fast]\n"))
	require.NoError(t, err)
	assert.Equal(t, "Quick Check", f.Name)
	assert.Equal(t, []string{"fast"}, f.Tags)
	assert.Empty(t, f.ID)
}

func TestParseBytes_ValidFull(t *testing.T) {
	t.Parallel()
	data, err := testdataFS.ReadFile("testdata/valid_full.yaml")
	require.NoError(t, err)
	f, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "item-category", f.ID)
	assert.Equal(t, "Item Category", f.Name)
	assert.Equal(t, []string{"arc", "mmlu"}, f.Datasets)
	assert.Equal(t, []string{"mcq-template"}, f.PromptTemplates)
	assert.Equal(t, []string{"rougescorer"}, f.Metrics)
	assert.Empty(t, f.AttackModules)
	assert.Equal(t, []any{80, 100}, f.GradingScale["A"])
}

func TestParseBytes_JSON(t *testing.T) {
	t.Parallel()
	f, err := ParseFS(testdataFS, "testdata/valid_full.json")
	require.NoError(t, err)
	assert.Equal(t, "JSON Recipe", f.Name)
	assert.Equal(t, []string{"rougescorer"}, f.Metrics)
}

func TestParseBytes_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
	}{
		{"missing name", "description: no name\n"},
		{"unknown key", "name: X\nprompts: [a]\n"},
		{"bad yaml", "name: [unclosed\n"},
		{"wrong type", "name: X\ntags: notalist\n"},
		{"empty list entry", "name: X\ndatasets: [\"\"]\n"},
		{"empty document", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes([]byte(tt.data))
			require.ErrorIs(t, err, recipebook.ErrInvalidManifest)
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()
	f, err := ParseFile("testdata/valid_simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Simple Recipe", f.Name)
	assert.Equal(t, []string{"arc"}, f.Datasets)

	_, err = ParseFile("testdata/missing.yaml")
	require.Error(t, err)
}

func TestParseFS(t *testing.T) {
	t.Parallel()
	f, err := ParseFS(testdataFS, "testdata/valid_simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Simple Recipe", f.Name)
}
