// Package errors provides error handling for contractgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrap(err, "failed to create output directory")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'contractgen generate' and commit the result")
//
//	// Check the failure class
//	if errors.Is(err, errors.ErrDrift) {
//	    // artifacts are stale
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for the failure classes of a generation run.
// Structured error types (schema.LoadError, schema.ValidationError,
// typegen.UnsupportedTypeError, output.WriteError, drift.Error) report
// themselves as one of these through their Is method, so callers can
// branch with errors.Is without importing the producing package.
var (
	// ErrSchemaLoad indicates the schema document is missing, unreadable or malformed.
	// Fatal: aborts before any emission.
	ErrSchemaLoad = New("schema load error")

	// ErrSchemaValidation indicates one or more structural invariant violations.
	// Fatal: aborts before any emission.
	ErrSchemaValidation = New("schema validation error")

	// ErrUnsupportedType indicates a property type has no mapping for a backend.
	// Aborts that backend's emission only.
	ErrUnsupportedType = New("unsupported type")

	// ErrWrite indicates an artifact destination could not be written.
	// Aborts that backend's write only.
	ErrWrite = New("write error")

	// ErrDrift indicates regenerated artifacts differ from the checked-in ones.
	ErrDrift = New("generated artifacts are out of date")
)

// IsFatal reports whether err aborts a run before any artifact is touched.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, ErrSchemaLoad, ErrSchemaValidation)
}

// IsBackendFailure reports whether err is isolated to a single backend.
func IsBackendFailure(err error) bool {
	return err != nil && IsAny(err, ErrUnsupportedType, ErrWrite)
}

// Multi collects independent failures, such as one per backend, without
// letting any of them hide the others.
type Multi []error

func (m Multi) Error() string {
	msgs := make([]string, len(m))
	for i, err := range m {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes every collected error to Is and As.
func (m Multi) Unwrap() []error { return m }

// Is reports whether any collected error matches target.
func (m Multi) Is(target error) bool {
	for _, err := range m {
		if Is(err, target) {
			return true
		}
	}
	return false
}

// Combine drops nil errors and returns nil, the single remaining error, or a Multi.
func Combine(errs ...error) error {
	var m Multi
	for _, err := range errs {
		if err != nil {
			m = append(m, err)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}
