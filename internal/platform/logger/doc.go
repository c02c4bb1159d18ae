// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// JSON or text logging with configurable log levels. Output goes to stderr, or
// to a size-rotated file managed by lumberjack when a log file is configured.
package logger
