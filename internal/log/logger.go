// Package log provides the component-scoped structured logger used across the
// engine. It is a thin wrapper over log/slog.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldGeneration = "generation"
	FieldMonth      = "month"
	FieldFile       = "file"
	FieldCount      = "count"
	FieldError      = "error"
)

// Standard component names.
const (
	ComponentSession  = "session"
	ComponentImporter = "importer"
	ComponentReclass  = "reclass"
	ComponentCLI      = "cli"
)

// Logger wraps slog.Logger with a component name attached to every record.
type Logger struct {
	*slog.Logger
	component string
}

// New creates a logger writing text records to stderr at the given level.
func New(level slog.Level, component string) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
	}
}

// WithComponent returns a logger scoped to a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
