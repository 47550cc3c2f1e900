package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across contractgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Run identity
	FieldRunID = "run_id"

	// Schema
	FieldSchema  = "schema"
	FieldVersion = "version"
	FieldPath    = "path"
	FieldRule    = "rule"

	// Emission
	FieldBackend  = "backend"
	FieldArtifact = "artifact"
	FieldStatus   = "status"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"
)

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a generation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID stored by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// LoggerFromContext returns a logger carrying the run ID from ctx, if any.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if runID := RunIDFromContext(ctx); runID != "" {
		return Logger.With(FieldRunID, runID)
	}
	return Logger
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Detector struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewDetector() *Detector {
//	    return &Detector{logger: logger.ComponentLogger("drift")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
