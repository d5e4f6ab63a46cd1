package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/recipebook"
)

// newConfig writes a file-backend config rooted in a temp dir and returns its path.
func newConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "storage:\n  backend: file\n  path: " + filepath.Join(dir, "data") + "\n" + extra
	p := filepath.Join(dir, "recipebook.yaml")
	require.NoError(t, os.WriteFile(p, []byte(cfg), 0o600))
	return p
}

func run(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := buildRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_RecipeLifecycle(t *testing.T) {
	t.Parallel()
	cfg := newConfig(t, "")

	out, _, err := run(t, cfg, "recipe", "create", "--name", "Item Category",
		"--dataset", "sample-news", "--dataset", "unknown", "--metric", "rougescorer")
	require.NoError(t, err)
	assert.Equal(t, "item-category\n", out)

	_, _, err = run(t, cfg, "recipe", "seed")
	require.NoError(t, err)

	out, _, err = run(t, cfg, "recipe", "get", "item-category")
	require.NoError(t, err)
	var rec recipebook.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Item Category", rec.Name)
	assert.Equal(t, map[string]int{"sample-news": 3, "unknown": 0}, rec.Stats.NumDatasetsPrompts)

	out, _, err = run(t, cfg, "recipe", "list", "-o", "json")
	require.NoError(t, err)
	var recs []recipebook.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "item-category", recs[0].ID)
	assert.Equal(t, "sample-summarization", recs[1].ID)
	assert.Equal(t, map[string]int{"sample-news": 3, "sample-dialogue": 250}, recs[1].Stats.NumDatasetsPrompts)

	_, _, err = run(t, cfg, "recipe", "update", "item-category", "--name", "Item Category v2", "--tag", "new")
	require.NoError(t, err)
	out, _, err = run(t, cfg, "recipe", "get", "item-category")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Item Category v2", rec.Name)
	assert.Equal(t, 1, rec.Stats.NumTags)
	assert.Zero(t, rec.Stats.NumDatasets)

	_, _, err = run(t, cfg, "recipe", "delete", "item-category")
	require.NoError(t, err)
	_, _, err = run(t, cfg, "recipe", "get", "item-category")
	require.ErrorIs(t, err, recipebook.ErrNotFound)
}

func TestCLI_StrictCreate(t *testing.T) {
	t.Parallel()
	cfg := newConfig(t, "")
	_, _, err := run(t, cfg, "recipe", "create", "--name", "Dup")
	require.NoError(t, err)
	_, _, err = run(t, cfg, "recipe", "create", "--name", "dup", "--strict")
	require.ErrorIs(t, err, recipebook.ErrAlreadyExists)
	_, _, err = run(t, cfg, "recipe", "create", "--name", "DUP")
	require.NoError(t, err)
}

func TestCLI_Import(t *testing.T) {
	t.Parallel()
	cfg := newConfig(t, "")
	m := filepath.Join(t.TempDir(), "r.yaml")
	require.NoError(t, os.WriteFile(m, []byte("name: From Manifest\ntags: [a, b]\n"), 0o600))

	out, _, err := run(t, cfg, "recipe", "import", m)
	require.NoError(t, err)
	assert.Equal(t, "from-manifest\n", out)

	out, _, err = run(t, cfg, "recipe", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "from-manifest")
	assert.Contains(t, out, "From Manifest")
}

func TestCLI_Score(t *testing.T) {
	t.Parallel()
	cfg := newConfig(t, "metrics:\n  enabled: true\n")
	dir := t.TempDir()
	targets := filepath.Join(dir, "t.json")
	preds := filepath.Join(dir, "p.json")
	require.NoError(t, os.WriteFile(targets, []byte(`["the cat sat"]`), 0o600))
	require.NoError(t, os.WriteFile(preds, []byte(`["the cat sat"]`), 0o600))

	out, stderr, err := run(t, cfg, "score", "--targets", targets, "--predictions", preds)
	require.NoError(t, err)
	var res struct {
		Rouge map[string]json.RawMessage `json:"rouge"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res.Rouge, "avg_rougeLsum")
	assert.Contains(t, stderr, "recipebook_operations_total")

	require.NoError(t, os.WriteFile(preds, []byte(`[]`), 0o600))
	_, _, err = run(t, cfg, "score", "--targets", targets, "--predictions", preds)
	require.Error(t, err)
}

func TestCLI_MetricList(t *testing.T) {
	t.Parallel()
	out, _, err := run(t, newConfig(t, ""), "metric", "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "RougeScorer returns the various rouge scores.")
}
