package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	folioerrors "github.com/conneroisu/folio/internal/errors"
)

func newBufferLogger(level LogLevel) (*FolioLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)
	ctx := context.Background()

	l.Debug(ctx, "debug")
	l.Info(ctx, "info")
	l.Warn(ctx, nil, "warn")
	l.Error(ctx, errors.New("bad"), "error")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["msg"])
	assert.Equal(t, "error", lines[1]["msg"])
	assert.Equal(t, "bad", lines[1]["error"])
}

func TestWithAndComponent(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	child := l.WithComponent("builder").With("workers", 4, 42, "dropped", "dangling")
	child.Info(context.Background(), "started", "pages", 3)
	l.Info(context.Background(), "parent")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "builder", lines[0]["component"])
	assert.EqualValues(t, 4, lines[0]["workers"])
	assert.EqualValues(t, 3, lines[0]["pages"])
	assert.NotContains(t, lines[0], "dangling")

	assert.NotContains(t, lines[1], "component")
	assert.NotContains(t, lines[1], "workers")
}

func TestFolioErrorAttributes(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)

	err := folioerrors.ErrRenderFailed("/docs/intro/", errors.New("boom")).WithFile("intro.json")
	l.Error(context.Background(), err, "page failed")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, folioerrors.ErrCodeRenderFailed, lines[0]["error_code"])
	assert.Equal(t, "/docs/intro/", lines[0]["slug"])
	assert.Equal(t, "intro.json", lines[0]["file"])
}

func TestStartOperation(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	ctx := context.Background()

	StartOperation(l, "build").End(ctx, "pages", 2)
	StartOperation(l, "build").EndWithError(ctx, errors.New("nope"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Operation completed", lines[0]["msg"])
	assert.Equal(t, "build", lines[0]["operation"])
	assert.Contains(t, lines[0], "duration_ms")
	assert.Equal(t, "Operation failed", lines[1]["msg"])
	assert.Equal(t, "nope", lines[1]["error"])
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Error(context.Background(), errors.New("x"), "dropped")
	})
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "text", Output: &buf})
	l.Info(context.Background(), "hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
