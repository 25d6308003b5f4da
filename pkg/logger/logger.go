package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the global logger instance. It falls back to slog's default logger
// until Setup is called, so packages can log from tests without setup.
var Log = slog.Default()

// Setup initializes the global logger based on the environment
func Setup(env string) {
	SetupWithWriter(env, os.Stdout)
}

// SetupWithWriter is Setup with an explicit destination.
// Production logs JSON at info level; every other environment logs text at
// debug level so receipt rendering details are visible while developing.
func SetupWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	Log = slog.New(handler).With(slog.String("service", "feedesk-api"))
	slog.SetDefault(Log)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
