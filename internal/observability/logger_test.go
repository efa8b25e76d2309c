package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "debug")
	t.Cleanup(func() { Init(os.Stdout, "info") })

	ctx := WithBoardID(WithRequestID(context.Background(), "req-1"), "board-1")
	LoggerFromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "board-1", line["board_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestInitFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "warn")
	t.Cleanup(func() { Init(os.Stdout, "info") })

	Logger().Info("dropped")
	assert.Empty(t, buf.String())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "info")
	t.Cleanup(func() { Init(os.Stdout, "info") })

	WithFields("component", "server", "addr", ":8080").Info("listening")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "server", line["component"])
	assert.Equal(t, ":8080", line["addr"])
}
