package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys.
type ContextKey string

// LoggerContextKey is the context key for the request-scoped logger.
const LoggerContextKey ContextKey = "logger"

// Middleware stores the logger in the request context so handlers and the
// layers below them log through FromContext.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts the request-scoped logger, falling back to the
// process default when the context carries none.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	base := slog.Default()
	return &Logger{Logger: base, base: base, component: ComponentApp}
}

// RequestIDMiddleware enriches the context logger with the request id, so
// every log line emitted while serving the request can be correlated.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger groups the domain log events that carry a fixed field
// shape, so call sites cannot drift apart in what they record.
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a structured logger on top of the given logger.
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogEntryCreated records a stored transaction or future entry.
func (sl *StructuredLogger) LogEntryCreated(ctx context.Context, userID int64, desc string, amountCents int64, entryType string) {
	fields := NewFields().
		WithEntry(userID, desc, amountCents, entryType).
		WithOperation(OpCreate)

	sl.logger.InfoContext(ctx, "entry created", fields.ToSlice()...)
}

// LogError records a failed operation with its error.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
