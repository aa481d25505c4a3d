// Package debug provides debug logging for the metadata core using log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init configures the debug logger. When enable is true, debug logs are
// written to stderr; otherwise they are discarded. Safe to call more than
// once (the QUERYARK_DEBUG env var and the --debug flag both route here).
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// InitFromEnv enables debug logging when QUERYARK_DEBUG is set to a
// non-empty value.
func InitFromEnv() {
	Init(os.Getenv("QUERYARK_DEBUG") != "")
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return get()
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
