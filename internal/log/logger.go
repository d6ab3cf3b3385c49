// Package log configures the process-wide slog default. Services log
// through the slog package functions directly; this only decides where
// those records go and at what level.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default logger. Level comes from LOG_LEVEL
// (debug, info, warn, error; default info), format from LOG_FORMAT
// (text or json; default text). The service name is attached to every
// record so the API and the worker are distinguishable in shared output.
func Setup(service string) {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler).With("service", service))
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
