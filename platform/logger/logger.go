// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/masq"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// TraceIDKey is the context key for trace ID
	TraceIDKey contextKey = "trace_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// Options tunes where and how log lines are written.
type Options struct {
	// File, when set, receives a copy of every line through a rotating writer.
	File string
	// Writer overrides stdout. Used by tests.
	Writer io.Writer
}

// New creates a new logger based on environment
func New(env string) *Logger {
	return NewWithOptions(env, Options{})
}

// NewWithOptions creates a logger with optional file rotation.
// Contact PII and credentials are always redacted.
func NewWithOptions(env string, opts Options) *Logger {
	var out io.Writer = os.Stdout
	if opts.Writer != nil {
		out = opts.Writer
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: redactor(),
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		handlerOpts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("phone"),
		masq.WithFieldName("email"),
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("token"),
		masq.WithFieldPrefix("secret"),
	)
}

// WithContext returns a logger with context values extracted.
// Supports request_id and trace_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("trace_id", traceID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// HTTPError logs an HTTP error
func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// DegradedStep logs a non-fatal pipeline step failure.
func (l *Logger) DegradedStep(step, trackingCode string, err error) {
	l.Warn("degraded_step",
		slog.String("step", step),
		slog.String("tracking_code", trackingCode),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
