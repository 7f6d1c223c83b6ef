package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldFile      = "file"
	FieldError     = "error"
	FieldCount     = "count"
	FieldAddress   = "address"

	// Unit tables
	FieldTable     = "table"
	FieldUnit      = "unit"
	FieldInput     = "input"
	FieldBase      = "base"
	FieldPrecision = "precision"
	FieldRevision  = "revision"
	FieldForce     = "force"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// FromContext returns l with the fields carried by ctx.
func FromContext(ctx context.Context, l *zap.SugaredLogger) *zap.SugaredLogger {
	l = OrNop(l)
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
