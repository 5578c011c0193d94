// Package logger wraps log/slog: a small Logger type constructed once
// from config, then threaded through every component via With.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps *slog.Logger so call sites don't import log/slog
// directly and so the construction policy (level, format) lives in one
// place.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from a level string ("debug", "info", "warn",
// "error") and a format ("json" or "text").
func New(level, format string) *Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl == slog.LevelDebug}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// With returns a Logger whose emitted records carry the given
// key/value pairs, without mutating the receiver.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Nop returns a Logger that discards everything, for tests that don't
// care about log output.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
