package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

func init() { Config(os.Stderr) }

// Default returns the package-level [Logger].
func Default() Logger { return *defaultLogger.Load() }

// SetDefault replaces the package-level [Logger].
func SetDefault(l Logger) { defaultLogger.Store(&l) }

// Config replaces the package-level [Logger] with one writing to w using the
// given options, and returns it.
func Config(w io.Writer, opts ...Option) Logger {
	l := Make(w, opts...)
	SetDefault(l)

	return l
}

// With returns the package-level [Logger] with attrs added to every message.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// Trace logs a message at Trace level using the package-level [Logger].
func Trace(msg string, attrs ...slog.Attr) {
	Default().logContext(context.Background(), LevelTrace, msg, attrs...)
}

// Debug logs a message at Debug level using the package-level [Logger].
func Debug(msg string, attrs ...slog.Attr) {
	Default().logContext(context.Background(), LevelDebug, msg, attrs...)
}

// Info logs a message at Info level using the package-level [Logger].
func Info(msg string, attrs ...slog.Attr) {
	Default().logContext(context.Background(), LevelInfo, msg, attrs...)
}

// Warn logs a message at Warn level using the package-level [Logger].
func Warn(msg string, attrs ...slog.Attr) {
	Default().logContext(context.Background(), LevelWarn, msg, attrs...)
}

// Error logs a message at Error level using the package-level [Logger].
func Error(msg string, attrs ...slog.Attr) {
	Default().logContext(context.Background(), LevelError, msg, attrs...)
}

// TraceContext logs a message at Trace level using the package-level [Logger].
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logContext(ctx, LevelTrace, msg, attrs...)
}

// DebugContext logs a message at Debug level using the package-level [Logger].
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logContext(ctx, LevelDebug, msg, attrs...)
}

// InfoContext logs a message at Info level using the package-level [Logger].
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logContext(ctx, LevelInfo, msg, attrs...)
}

// WarnContext logs a message at Warn level using the package-level [Logger].
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logContext(ctx, LevelWarn, msg, attrs...)
}

// ErrorContext logs a message at Error level using the package-level [Logger].
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logContext(ctx, LevelError, msg, attrs...)
}
