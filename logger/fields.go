package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across ancestry.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Individuals and queries
	FieldIndividualID = "individual_id"
	FieldRootID       = "root_id"
	FieldRoots        = "roots"
	FieldMaxDepth     = "max_depth"
	FieldMinBirthYear = "min_birth_year"
	FieldDepth        = "depth"
	FieldRunID        = "run_id"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldWarnings   = "warnings"

	// Files and paths
	FieldPath = "path"
	FieldLine = "line"

	FieldSymbol = "symbol"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type SQLStore struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewSQLStore(db *sql.DB) *SQLStore {
//	    return &SQLStore{
//	        logger: logger.ComponentLogger("storage"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// OrComponent returns l when non-nil, otherwise the named component logger.
func OrComponent(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if l != nil {
		return l.Named(name)
	}
	return ComponentLogger(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	rootLogger := logger.ChildLogger(baseLogger, logger.FieldRootID, root)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
