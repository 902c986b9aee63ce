package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts (-v, -vv, -vvv).
//
// These levels control WHAT categories of output are shown, not just log severity.
const (
	VerbosityUser  = 0 // No flags: results, warnings and errors
	VerbosityInfo  = 1 // -v: + progress, load summaries
	VerbosityDebug = 2 // -vv: + per-root traversal, timing, config details
	VerbosityTrace = 3 // -vvv: + SQL statements, full member dumps
)

// VerbosityToLevel maps verbosity flags to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// OutputCategory defines a category of CLI output that can be enabled/disabled
type OutputCategory int

const (
	OutputResults  OutputCategory = iota // Lineage members, depths, exported rows
	OutputWarnings                       // Duplicate IDs, unparseable birth years
	OutputProgress                       // Stage announcements and counts
	OutputTiming                         // Operation timing
	OutputConfig                         // Config values loaded/applied
	OutputSQL                            // Individual SQL statements
	OutputDataDump                       // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputWarnings: VerbosityUser,
	OutputProgress: VerbosityInfo,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,
	OutputSQL:      VerbosityTrace,
	OutputDataDump: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	case verbosity == VerbosityDebug:
		return "Debug (-vv)"
	default:
		return "Trace (-vvv)"
	}
}
