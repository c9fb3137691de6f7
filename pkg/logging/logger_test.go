package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevelThresholds(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelInfo, slog.LevelDebug},
		{"nonsense", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		logger := New(tt.level)
		if !logger.Enabled(ctx, tt.enabled) {
			t.Fatalf("level %q: expected %s enabled", tt.level, tt.enabled)
		}
		if logger.Enabled(ctx, tt.disabled) {
			t.Fatalf("level %q: expected %s disabled", tt.level, tt.disabled)
		}
	}
}

func TestNewNormalizesLevelName(t *testing.T) {
	logger := New("  DEBUG ")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected case-insensitive level parsing")
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
	logger.Info("startup check", "component", "logging")

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
}
