package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a *slog.Logger and sets it as the default logger.
//
// Format "json" produces structured JSON output (batch runs on a cluster).
// Format "text" produces human-readable output (local runs).
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
// Output is always os.Stderr so result tables can go to stdout untouched.
func New(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
