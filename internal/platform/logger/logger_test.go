package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetupWritesJSONAtConfiguredLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	l := setup(buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "component", "test")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Same(t, l, slog.Default())
}

func TestContextLogger(t *testing.T) {
	l, buf := NewTestLogger(t)

	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, l, FromContextOrDefault(context.Background(), l))

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))

	FromContext(ctx).Info("hello")
	AssertLogContains(t, buf, `"request_id":"req-42"`)
}
