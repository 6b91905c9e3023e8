// Package observability provides structured logging, HTTP metrics, health
// probes, and graceful shutdown for the server processes.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golexcel/golexcel/pkg/contextkeys"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR"}[l]
}

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel parses a log level string, defaulting to info
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "debug", "DEBUG":
		return DebugLevel
	case "warn", "warning", "WARN":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides structured JSON logging using stdlib slog
type Logger struct {
	logger *slog.Logger
	level  LogLevel
}

// NewLogger creates a new structured logger using slog
func NewLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: level.toSlogLevel(),
	})
	return &Logger{
		logger: slog.New(handler),
		level:  level,
	}
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		logger: l.logger.With(key, value),
		level:  l.level,
	}
}

// WithError adds an error to the logger context
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(message string) {
	l.logger.Debug(message)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Info logs an info message
func (l *Logger) Info(message string) {
	l.logger.Info(message)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(message string) {
	l.logger.Warn(message)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(message string) {
	l.logger.Error(message)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// WithLogger stores a logger on the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return contextkeys.WithValue(ctx, contextkeys.LoggerKey, logger)
}

// FromContext retrieves the request-scoped logger, enriched with the request
// ID when one is present. Falls back to a default stdout logger.
func FromContext(ctx context.Context) *Logger {
	logger, ok := contextkeys.Value(ctx, contextkeys.LoggerKey).(*Logger)
	if !ok {
		logger = NewLogger(InfoLevel, os.Stdout)
	}
	if requestID, ok := contextkeys.Value(ctx, contextkeys.RequestIDKey).(string); ok && requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	return logger
}
