// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     logging
// Description: Structured logging for all voice2code components
// Author:      Kiran Shivaraju
// Created:     2026-06-28
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string level to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the output encoding
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Config holds logger configuration
type Config struct {
	// Name identifies the component in every entry
	Name string

	// Level is the minimum severity that is written
	Level Level

	// Format is the output encoding (default: text)
	Format Format

	// Output is the destination writer (default: stderr)
	Output io.Writer
}

// Logger is a leveled, component-scoped logger. All methods accept
// alternating key-value pairs after the message.
type Logger struct {
	mu     sync.Mutex
	name   string
	level  Level
	format Format
	output io.Writer
}

// New creates a logger for the named component with default settings
func New(name string) *Logger {
	return NewWithConfig(Config{Name: name})
}

// NewWithConfig creates a logger with the given configuration
func NewWithConfig(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		name:   cfg.Name,
		level:  cfg.Level,
		format: cfg.Format,
		output: out,
	}
}

// Nop returns a logger that discards everything. Used in tests and as a
// safe fallback when no logger was provided.
func Nop() *Logger {
	return &Logger{name: "nop", level: LevelError + 1, output: io.Discard}
}

// OpenLogFile opens path for appending, creating parent directories as
// needed. The caller owns the returned file.
func OpenLogFile(path string) (*os.File, error) {
	path = os.ExpandEnv(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Named returns a child logger with a dotted sub-component name
func (l *Logger) Named(sub string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		name:   l.name + "." + sub,
		level:  l.level,
		format: l.format,
		output: l.output,
	}
}

// SetLevel changes the minimum severity at runtime
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput changes the destination writer at runtime
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues...)
}

func (l *Logger) log(level Level, msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := Entry{
		Time:    time.Now(),
		Level:   level,
		Name:    l.name,
		Message: msg,
		Fields:  pairsToFields(keysAndValues...),
	}

	line := formatEntry(l.format, entry)
	fmt.Fprintln(l.output, line)
}

// pairsToFields converts alternating key-value arguments to ordered fields.
// A trailing key without a value and non-string keys are dropped.
func pairsToFields(keysAndValues ...interface{}) []Field {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make([]Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, Field{Key: key, Value: keysAndValues[i+1]})
	}
	return fields
}
