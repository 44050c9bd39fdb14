package logging

import "context"

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, falling back to global.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return global
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID adds a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// contextFields extracts logging fields from context.
func contextFields(ctx context.Context) []interface{} {
	var fields []interface{}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		fields = append(fields, "user_id", userID)
	}
	return fields
}

// InfoCtx logs an info message enriched with context fields.
func InfoCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Info(msg, append(contextFields(ctx), fields...)...)
}

// WarnCtx logs a warning message enriched with context fields.
func WarnCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Warn(msg, append(contextFields(ctx), fields...)...)
}

// ErrorCtx logs an error message enriched with context fields.
func ErrorCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Error(msg, append(contextFields(ctx), fields...)...)
}
