// Package logging provides the structured JSON logger shared by the booking
// API, the migration runner, and the voice Lambda proxy.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so call sites can attach booking context without
// importing slog directly.
type Logger struct {
	*slog.Logger
}

// New builds a JSON logger writing to stdout at the given level and tags
// every record with the service name. Unknown level names fall back to info.
func New(level string) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return &Logger{Logger: slog.New(handler).With("service", "laundry-booking")}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns an info-level logger for code paths constructed without
// explicit configuration.
func Default() *Logger {
	return New("info")
}
