// Package logging provides structured logging for pomo.
// It wraps Go's log/slog package to write JSON lines to a file, since the
// terminal itself belongs to the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging with persistent attributes.
type Logger struct {
	logger *slog.Logger
	closer io.Closer
}

// NewLogger creates a Logger that appends JSON-formatted logs to path.
// If path is empty, logs are written to stderr.
func NewLogger(path string, level string) (*Logger, error) {
	var writer io.Writer = os.Stderr
	var closer io.Closer

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
		closer = file
	}

	return NewWriterLogger(writer, level, closer), nil
}

// NewWriterLogger creates a Logger on an arbitrary writer.
func NewWriterLogger(w io.Writer, level string, closer io.Closer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler), closer: closer}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError, nil)
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying the given key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), closer: l.closer}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
