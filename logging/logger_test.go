package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{" warn ", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"Error", LogLevelError},
		{"verbose", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func newBufferLogger(level LogLevel) (*BridgeLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = &buf
	return NewLogger(cfg), &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestBridgeLogger_ContextualAttrs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.WithComponent("engine").WithExecution("ctx-1", "process").WithContext("run", 7).Info("hello", "k", "v")
	l.Debug("filtered")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "hello", e["msg"])
	assert.Equal(t, "engine", e["component"])
	assert.Equal(t, "ctx-1", e["context_id"])
	assert.Equal(t, "process", e["stage"])
	assert.Equal(t, float64(7), e["run"])
	assert.Equal(t, "v", e["k"])
}

func TestBridgeLogger_WithDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	_ = l.WithContext("child", true)
	l.Info("parent")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "child")
}

func TestBridgeLogger_LogStage(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.LogStage("begin", 2, time.Millisecond, nil)
	l.LogStage("process", 1, time.Millisecond, errors.New("boom"))

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Stage failed", entries[0]["msg"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.Equal(t, float64(1), entries[0]["action_count"])
}

func TestBridgeLogger_LogActionNeedsDebug(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogAction("a1", "succeeded", time.Millisecond)
	assert.Empty(t, buf.String())

	l, buf = newBufferLogger(LogLevelDebug)
	l.LogAction("a1", "succeeded", time.Millisecond)
	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "a1", entries[0]["action_id"])
}

func TestBridgeLogger_ErrorWithStack(t *testing.T) {
	l, buf := newBufferLogger(LogLevelError)
	l.ErrorWithStack(errors.New("bad"), "failed")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "bad", entries[0]["error"])
	assert.Contains(t, entries[0]["stack_trace"], "goroutine")
}

func TestArgsToAttrs(t *testing.T) {
	attrs := argsToAttrs([]any{"a", 1, slog.String("b", "x"), "dangling"})
	require.Len(t, attrs, 3)
	assert.Equal(t, "a", attrs[0].Key)
	assert.Equal(t, "b", attrs[1].Key)
	assert.Equal(t, "!BADKEY", attrs[2].Key)
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)

	a := NewLogrusAdapter(l)
	a.Debug("hidden")
	a.Warn("careful", "stage", "end", "actions", 3)

	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "careful", entries[0]["msg"])
	assert.Equal(t, "warning", entries[0]["level"])
	assert.Equal(t, "end", entries[0]["stage"])
	assert.Equal(t, float64(3), entries[0]["actions"])
}

func TestNewLogrusLogger(t *testing.T) {
	a := NewLogrusLogger(LogLevelError, "text")
	assert.Equal(t, logrus.ErrorLevel, a.entry.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, a.entry.Logger.Formatter)
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewZapAdapter(zap.New(core))

	a.Debug("hidden")
	a.Error("failed", "context_id", "c1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed", entry.Message)
	assert.Equal(t, "c1", entry.ContextMap()["context_id"])
}

func TestNewZapLogger(t *testing.T) {
	a, err := NewZapLogger(LogLevelDebug, "text")
	require.NoError(t, err)
	a.Debug("ready")
	_ = a.Sync()
	assert.NotNil(t, NewZapAdapter(nil))
}
