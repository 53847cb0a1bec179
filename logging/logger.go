// SPDX-License-Identifier: MIT

// Package logging builds the leveled slog.Logger used across citysim.
// Records are rendered by charmbracelet/log, which implements slog.Handler,
// so library code depends only on log/slog.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LevelTrace is a custom slog level below Debug for per-agent tracing.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level.
// Supported values: "trace", "debug", "info", "warn", "error" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat maps "json" and "logfmt" to their formatters; anything else is text.
func ParseFormat(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// NewLogger creates a leveled slog.Logger writing to w in the given format.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	h := log.NewWithOptions(w, log.Options{
		Level:           log.Level(ParseLevel(level)),
		Formatter:       ParseFormat(format),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
