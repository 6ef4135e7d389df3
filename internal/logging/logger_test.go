package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "debug", Format: "json", Service: "roster-api", Version: "test", Output: &buf})
	logger.Debug("hello", FieldLeagueID, "123")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "roster-api", line["service"])
	assert.Equal(t, "123", line[FieldLeagueID])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})
	logger.Info("dropped")
	assert.Zero(t, buf.Len())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestFromContext(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := fallback.With(FieldRequestID, "abc")

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, scoped, FromContext(WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))
}
