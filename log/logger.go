// Package log provides the leveled, package-level logger used by the CLI and
// the watcher. It is a thin layer over log/slog with a compact text handler.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LevelError LogLevel = "error"
	LevelWarn  LogLevel = "warn"
	LevelInfo  LogLevel = "info"
	LevelDebug LogLevel = "debug"
)

var (
	mu sync.RWMutex

	// Current logger instance
	logger *slog.Logger

	// Current log level
	currentLevel = slog.LevelInfo

	// Where log lines are written
	output io.Writer = os.Stderr
)

func init() {
	setupLogger()
}

// SetLevel configures the logging level
func SetLevel(level LogLevel) error {
	slogLevel, err := toSlog(level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	currentLevel = slogLevel
	setupLogger()
	return nil
}

// SetOutput redirects log output, mostly useful in tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	setupLogger()
}

// ParseLevel converts a string to LogLevel
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, err := toSlog(level); err != nil {
		return "", fmt.Errorf("invalid log level: %s", s)
	}
	return level, nil
}

func toSlog(level LogLevel) (slog.Level, error) {
	switch level {
	case LevelError:
		return slog.LevelError, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", level)
}

// setupLogger must be called with mu held (or from init)
func setupLogger() {
	logger = slog.New(NewHandler(output, currentLevel))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Error logs an error message
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel <= slog.LevelDebug
}
