package observability

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/recipebook"
)

func TestNewLogger_Formats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf}).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(LogConfig{Format: "TEXT", Output: &buf}).Info("hi")
	assert.Contains(t, buf.String(), "msg=hi")

	buf.Reset()
	NewLogger(LogConfig{Level: "warn", Output: &buf}).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestMetrics_ObserveOperation(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveOperation("read", time.Millisecond, nil)
	m.ObserveOperation("read", time.Millisecond, fmt.Errorf("wrap: %w", recipebook.ErrNotFound))
	m.ObserveOperation("create", time.Millisecond, errors.New("disk full"))

	expected := `
# HELP recipebook_operations_total Recipe and scoring operations by outcome.
# TYPE recipebook_operations_total counter
recipebook_operations_total{op="create",status="error"} 1
recipebook_operations_total{op="read",status="not_found"} 1
recipebook_operations_total{op="read",status="success"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.Operations, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	require.Error(t, err)

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Operations)
}

func TestTracer_NoopByDefault(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, Tracer())
}
