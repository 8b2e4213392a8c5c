package log

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for per-file and per-rule detail
	LevelDebug Level = iota
	// LevelInfo is for pass-level progress (assets found, classes extracted)
	LevelInfo
	// LevelWarn is for skipped fragments and other recoverable problems
	LevelWarn
	// LevelError is for stylesheets that could not be processed
	LevelError
)

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel Level     = LevelInfo
	prefix   string    = "[css-shrink]"
)

// SetOutput sets the output destination (primarily for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return minLevel
}

// ParseLevel maps a level name to a Level. Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	log(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...any) {
	log(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...any) {
	log(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...any) {
	log(LevelError, format, args...)
}

// Logger tags every message with one key=value field, such as the asset
// being processed
type Logger struct {
	field string
}

// With returns a Logger whose messages carry key=value after the prefix.
// Values containing spaces are quoted.
func With(key, value string) Logger {
	if value == "" || strings.ContainsAny(value, " \t\"=") {
		value = strconv.Quote(value)
	}
	return Logger{field: key + "=" + value}
}

func (l Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

func (l Logger) log(level Level, format string, args ...any) {
	write(level, l.field, format, args...)
}

func log(level Level, format string, args ...any) {
	write(level, "", format, args...)
}

func write(level Level, field, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel {
		return
	}

	// Skip logging if output is nil (e.g., during test cleanup)
	if output == nil {
		return
	}

	line := prefix
	if field != "" {
		line += " " + field
	}
	fmt.Fprintf(output, "%s %s\n", line, fmt.Sprintf(format, args...))
}
