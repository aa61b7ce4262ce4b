package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(t.Context(), logger)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected logger from context to write to buffer, got: %q", buf.String())
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if got := FromContext(t.Context()); got != slog.Default() {
		t.Error("expected slog.Default() when context carries no logger")
	}
	ctx := NewContext(context.Background(), nil)
	if got := FromContext(ctx); got != slog.Default() {
		t.Error("expected slog.Default() when context carries a nil logger")
	}
}
