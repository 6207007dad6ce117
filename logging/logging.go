// Package logging is the diagnostics channel shared by the analysis and
// display packages. Components take a Logger and fall back to the global one.
package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is a log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	}
	return "UNKNOWN"
}

// ParseLevel maps a config string such as "debug" or "warning" to a Level.
// An empty string is InfoLevel.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	switch lvl {
	case logrus.TraceLevel, logrus.DebugLevel:
		return DebugLevel, nil
	case logrus.InfoLevel:
		return InfoLevel, nil
	case logrus.WarnLevel:
		return WarnLevel, nil
	case logrus.ErrorLevel:
		return ErrorLevel, nil
	}
	return FatalLevel, nil
}

// Fields are structured key/value pairs attached to a record
type Fields map[string]any

// Logger receives diagnostics. Recoverable conditions such as coerced input
// or deprecated parameters go through Warn.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Fatal(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger

	// WithContext returns a logger carrying the fields stored in ctx by ContextWithFields
	WithContext(ctx context.Context) Logger

	SetLevel(level Level)
}

type fieldsKey struct{}

// ContextWithFields stores fields in ctx for WithContext to pick up
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func fieldsFromContext(ctx context.Context) (Fields, bool) {
	if ctx == nil {
		return nil, false
	}
	fields, ok := ctx.Value(fieldsKey{}).(Fields)
	return fields, ok
}

var globalLogger Logger = NewDefaultLogger()

// SetGlobalLogger replaces the fallback logger. nil installs a NoOpLogger.
func SetGlobalLogger(logger Logger) {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	globalLogger = logger
}

// GetGlobalLogger returns the fallback logger
func GetGlobalLogger() Logger {
	return globalLogger
}

// OrGlobal returns l, or the global logger tagged with component when l is nil
func OrGlobal(l Logger, component string) Logger {
	if l != nil {
		return l
	}
	return globalLogger.WithFields(Fields{"component": component})
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(string, ...Fields)            {}
func (n *NoOpLogger) Info(string, ...Fields)             {}
func (n *NoOpLogger) Warn(string, ...Fields)             {}
func (n *NoOpLogger) Error(error, string, ...Fields)     {}
func (n *NoOpLogger) Fatal(error, string, ...Fields)     {}
func (n *NoOpLogger) WithFields(Fields) Logger           { return n }
func (n *NoOpLogger) WithContext(context.Context) Logger { return n }
func (n *NoOpLogger) SetLevel(Level)                     {}
