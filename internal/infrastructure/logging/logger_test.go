package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		payload := make(map[string]interface{})
		require.NoError(t, json.Unmarshal([]byte(line), &payload), "line %q", line)
		out = append(out, payload)
	}
	return out
}

func TestLoggerIncludesCorrelationIDAndLayer(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Level:     "debug",
		Format:    FormatJSON,
		Layer:     "application",
		Component: "registry",
	})
	require.NoError(t, err)

	ctx := ports.WithCorrelationID(context.Background(), "abc123")
	logger.Info(ctx, "score calculated", "score_id", "rox_index", "duration", 3*time.Millisecond)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	payload := lines[0]

	assert.Equal(t, "application", payload["layer"])
	assert.Equal(t, "registry", payload["component"])
	assert.Equal(t, "abc123", payload["correlation_id"])
	assert.Equal(t, "rox_index", payload["score_id"])
	assert.Equal(t, "score calculated", payload["message"])
	assert.Equal(t, "info", payload["level"])
	assert.Contains(t, payload, "time")
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Format: FormatJSON})
	require.NoError(t, err)

	child := logger.With("component", "cache")
	child.Warn(context.Background(), "resolution failed", "score_id", "ldl_calculated", "error", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "cache", lines[0]["component"])
	assert.Equal(t, "ldl_calculated", lines[0]["score_id"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "infrastructure", lines[0]["layer"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "warn", Format: FormatJSON})
	require.NoError(t, err)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden")
	logger.Error(context.Background(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestLoggerOptionsErrors(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Format: FormatConsole})
	require.NoError(t, err)

	logger.Info(context.Background(), "listening", "addr", ":8000")
	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.Contains(t, out, "addr=")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestAutoFormatUsesJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Format: FormatAuto})
	require.NoError(t, err)

	logger.Info(context.Background(), "piped")
	assert.True(t, json.Valid([]byte(strings.TrimSpace(buf.String()))))
}

func TestMergeFieldsOverridesKeepPosition(t *testing.T) {
	merged := mergeFields(
		[]interface{}{"component", "http", "score_id", "a"},
		[]interface{}{"score_id", "b", 42, "ignored", "status", 200},
		map[string]interface{}{"layer": "transport", "correlation_id": ""},
	)

	assert.Equal(t, []interface{}{"component", "http", "score_id", "b", "status", 200, "layer", "transport"}, merged)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Info(context.Background(), "hello world")
	})
	assert.Equal(t, Nop, Nop.With("key", "value"))
	assert.Equal(t, Nop, OrNop(nil))

	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Format: FormatJSON})
	require.NoError(t, err)
	assert.Same(t, logger, OrNop(logger))
}

func TestDeferredReplaysOnAttach(t *testing.T) {
	deferred := NewDeferred(10)

	ctx := ports.WithCorrelationID(context.Background(), "boot")
	deferred.Info(ctx, "config loaded", "path", "nobra.yaml")
	deferred.With("component", "config").Warn(ctx, "unknown key", "key", "extra")
	assert.Equal(t, 2, deferred.Pending())

	var buf bytes.Buffer
	delegate, err := New(Options{Writer: &buf, Format: FormatJSON})
	require.NoError(t, err)
	deferred.Attach(delegate)
	assert.Equal(t, 0, deferred.Pending())

	deferred.Error(ctx, "after attach")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "config loaded", lines[0]["message"])
	assert.Equal(t, "boot", lines[0]["correlation_id"])
	assert.Equal(t, "config", lines[1]["component"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "after attach", lines[2]["message"])
}

func TestDeferredDropsOldest(t *testing.T) {
	deferred := NewDeferred(2)
	deferred.Info(context.Background(), "one")
	deferred.Info(context.Background(), "two")
	deferred.Info(context.Background(), "three")
	require.Equal(t, 2, deferred.Pending())

	var buf bytes.Buffer
	delegate, err := New(Options{Writer: &buf, Format: FormatJSON})
	require.NoError(t, err)
	deferred.Attach(delegate)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "two", lines[0]["message"])
	assert.Equal(t, "three", lines[1]["message"])
}
