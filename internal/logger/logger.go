package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// contextKey is the type used for context keys
type contextKey string

const requestIDKey contextKey = "request_id"

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Entry represents a single log entry
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger provides structured logging functionality
type Logger struct {
	output   io.Writer
	minLevel Level
	format   string // "json" or "text"
}

// Config holds logger configuration
type Config struct {
	Output   io.Writer
	MinLevel Level
	Format   string
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.MinLevel == "" {
		cfg.MinLevel = LevelInfo
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	return &Logger{
		output:   cfg.Output,
		minLevel: cfg.MinLevel,
		format:   cfg.Format,
	}
}

// Default returns the shared application logger
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Config{})
	}
	return defaultLogger
}

// SetDefault replaces the shared logger (used at startup and in tests)
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Initialize builds the shared logger from config values
func Initialize(level, format string) {
	SetDefault(New(Config{
		MinLevel: ParseLevel(level),
		Format:   format,
	}))
}

// ParseLevel converts a string log level to a Level type
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.log(LevelDebug, msg, nil, nil)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.log(LevelInfo, msg, nil, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.log(LevelWarn, msg, nil, nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.log(LevelError, msg, nil, err)
}

// InfoContext logs an info message with request context
func (l *Logger) InfoContext(ctx context.Context, msg string) {
	l.log(LevelInfo, msg, contextFields(ctx, nil), nil)
}

// ErrorContext logs an error message with request context
func (l *Logger) ErrorContext(ctx context.Context, msg string, err error) {
	l.log(LevelError, msg, contextFields(ctx, nil), err)
}

// WithFields returns a new logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{
		logger: l,
		fields: fields,
	}
}

func (l *Logger) log(level Level, msg string, fields map[string]interface{}, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
		Context:   fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if l.format == "text" {
		line := fmt.Sprintf("%s [%s] %s", entry.Timestamp, entry.Level, entry.Message)
		if entry.Error != "" {
			line += " error=" + entry.Error
		}
		for k, v := range entry.Context {
			line += fmt.Sprintf(" %s=%v", k, v)
		}
		fmt.Fprintln(l.output, line)
		return
	}

	data, _ := json.Marshal(entry)
	fmt.Fprintln(l.output, string(data))
}

func contextFields(ctx context.Context, fields map[string]interface{}) map[string]interface{} {
	requestID := ctx.Value(requestIDKey)
	if requestID == nil {
		return fields
	}
	merged := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["request_id"] = requestID
	return merged
}

// FieldLogger is a logger with pre-set fields
type FieldLogger struct {
	logger *Logger
	fields map[string]interface{}
}

// Debug logs a debug message with fields
func (fl *FieldLogger) Debug(msg string) {
	fl.logger.log(LevelDebug, msg, fl.fields, nil)
}

// Info logs an info message with fields
func (fl *FieldLogger) Info(msg string) {
	fl.logger.log(LevelInfo, msg, fl.fields, nil)
}

// Warn logs a warning message with fields
func (fl *FieldLogger) Warn(msg string) {
	fl.logger.log(LevelWarn, msg, fl.fields, nil)
}

// Error logs an error message with fields
func (fl *FieldLogger) Error(msg string, err error) {
	fl.logger.log(LevelError, msg, fl.fields, err)
}

// ContextWithRequestID adds a request ID to the context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
