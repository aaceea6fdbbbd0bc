package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Logger is a structured logger for trellis components.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to w.
func NewLogger(w io.Writer, component string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "trellis"),
	)

	return &Logger{Logger: logger}
}

// NewFileLogger opens (or creates) path in append mode and logs to it.
// The terminal owns stdout while an app runs, so file output is the only
// place log lines can go without corrupting the screen.
func NewFileLogger(path, component string, level slog.Level) (*Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f, component, level), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithContext returns a logger carrying the trace and span ids of the
// span stored in ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return &Logger{
		Logger: l.Logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		),
	}
}

// WithComponent returns a child logger for a sub-component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", component)),
	}
}

// WithPath returns a logger with the id path of a view node.
func (l *Logger) WithPath(path fmt.Stringer) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("path", path.String())),
	}
}

// WithFrame returns a logger with frame-specific fields
func (l *Logger) WithFrame(frame uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.Uint64("frame", frame)),
	}
}

// LogStaleMessage logs a message whose target no longer exists.
func (l *Logger) LogStaleMessage(path fmt.Stringer, msg any) {
	l.Debug("stale message dropped",
		slog.String("path", path.String()),
		slog.String("message_type", fmt.Sprintf("%T", msg)),
	)
}

// LogTaskFailed logs an async task that finished with an error.
func (l *Logger) LogTaskFailed(path fmt.Stringer, err error) {
	l.Warn("async task failed",
		slog.String("path", path.String()),
		slog.String("error", err.Error()),
	)
}

// LogWake logs the delivery of a wake to a view node.
func (l *Logger) LogWake(path fmt.Stringer) {
	l.Debug("wake delivered", slog.String("path", path.String()))
}

// LogFrame logs the timings of one rendered frame.
func (l *Logger) LogFrame(frame uint64, rebuild, layout, paint time.Duration) {
	l.Debug("frame rendered",
		slog.Uint64("frame", frame),
		slog.Duration("rebuild", rebuild),
		slog.Duration("layout", layout),
		slog.Duration("paint", paint),
	)
}
