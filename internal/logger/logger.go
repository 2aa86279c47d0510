// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// logger is the context key of the logger.
type logger struct{}

// runIDKey is the attribute carrying the ID of a collection run.
const runIDKey = "runID"

// NewLogger creates a new slog.Logger instance.
// If handlers are provided, the first one is used. Otherwise a handler
// configured by the LOG_FORMAT and LOG_LEVEL environment variables is used.
func NewLogger(h ...slog.Handler) *slog.Logger {
	var handler slog.Handler
	if len(h) > 0 {
		handler = h[0]
	} else {
		handler = newHandler(os.Stderr)
	}
	return slog.New(handler)
}

// WithRunID returns a context whose logger tags every record with the run ID.
// The logger of ctx is extended, or a new one is created if ctx has none.
func WithRunID(ctx context.Context, runID string) context.Context {
	return IntoContext(ctx, FromContext(ctx).With(runIDKey, runID))
}

// IntoContext embeds the provided slog.Logger into the given context.
func IntoContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, logger{}, log)
}

// FromContext extracts the slog.Logger from the given context.
// A new logger is returned if the context is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(logger{}).(*slog.Logger); ok {
			return log
		}
	}
	return NewLogger()
}

// newHandler returns a JSON handler writing to w, or a text handler
// if LOG_FORMAT is set to TEXT.
func newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     getLevel(os.Getenv("LOG_LEVEL")),
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "TEXT") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// getLevel maps a level name to a slog.Level, defaulting to INFO.
func getLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
