package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldJob         = "job"
	FieldKind        = "kind"
	FieldComponent   = "component"
	FieldSource      = "source"
	FieldDestination = "destination"
	FieldFormat      = "format"
	FieldStruct      = "struct"
	FieldEnum        = "enum"
	FieldCount       = "count"
	FieldWritten     = "written"
	FieldDurationMS  = "duration_ms"
	FieldError       = "error"
)

// Context keys for propagating logging context
type contextKey string

const (
	jobKey       contextKey = "logger_job"
	componentKey contextKey = "logger_component"
)

// WithJob adds a manifest job name to the context for logging
func WithJob(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobKey, job)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if job, ok := ctx.Value(jobKey).(string); ok && job != "" {
		fields = append(fields, FieldJob, job)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Generator struct {
//	    log *zap.SugaredLogger
//	}
//
//	func New() *Generator {
//	    return &Generator{log: logger.ComponentLogger("generate")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
