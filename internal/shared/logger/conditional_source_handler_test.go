package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		showLevels []slog.Level
		wantSource bool
	}{
		{"info not configured", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn configured", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error configured", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"info in debug mode", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewConditionalSourceHandler(base, tt.showLevels...))

			log.Log(context.Background(), tt.level, "cache sweep finished")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandler_WithAttrsKeepsLevels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewConditionalSourceHandler(base, slog.LevelWarn)).With("component", "scheduler")

	log.Warn("tick skipped")

	out := buf.String()
	assert.Contains(t, out, "component=scheduler")
	assert.Contains(t, out, "source=")
}

func TestNewNopLogger_Discards(t *testing.T) {
	log := NewNopLogger()
	assert.NotPanics(t, func() {
		log.Infow("ignored", "key", "value")
		log.Named("x").With("a", 1).Errorw("ignored")
	})
}
