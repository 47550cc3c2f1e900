// Package logger holds the process-wide zap logger used by contractgen.
//
// Logs always go to stderr. Stdout is reserved for command results
// (generated file lists, diffs, config dumps) so they can be piped.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity is the number of -v flags given on the command line.
const (
	VerbosityUser  = 0 // warnings and errors
	VerbosityInfo  = 1 // -v: per-backend progress
	VerbosityDebug = 2 // -vv: config resolution, timing
)

var (
	// Logger is a no-op until Initialize runs.
	Logger = zap.NewNop().Sugar()

	// JSONOutput records whether the last Initialize selected JSON encoding.
	JSONOutput bool
)

// Initialize replaces Logger with one writing to stderr.
func Initialize(jsonOutput bool, verbosity int) error {
	return InitializeWithWriter(os.Stderr, jsonOutput, verbosity)
}

// InitializeWithWriter replaces Logger with one writing to w.
func InitializeWithWriter(w io.Writer, jsonOutput bool, verbosity int) error {
	var encoder zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		encoder = newMinimalEncoder()
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), VerbosityToLevel(verbosity))
	Logger = zap.New(core).Sugar()
	JSONOutput = jsonOutput
	return nil
}

// Cleanup flushes buffered entries. Sync errors on terminals are ignored.
func Cleanup() {
	_ = Logger.Sync()
}

// VerbosityToLevel maps a -v count to the minimum enabled level.
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
