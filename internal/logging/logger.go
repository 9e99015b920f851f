// Package logging defines the structured-logging interface used across the
// scheduler and its slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "reservation committed", "appointment_id", id, "caregiver", name)
type Logger interface {
	// Debug logs diagnostic detail that is off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// New builds a Logger of the named backend writing to w.
func New(backend, level string, w io.Writer) (Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendSlog, "":
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return NewZapLoggerTo(w, l), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
