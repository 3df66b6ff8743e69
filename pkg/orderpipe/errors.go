package orderpipe

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	summary, err := controller.Run(ctx, config)
//	if errors.Is(err, orderpipe.ErrMalformedRecord) {
//	    // Handle an unparseable order document
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoOrderFiles indicates the source directory contains no order documents.
	ErrNoOrderFiles = errors.New("no order files found")

	// ErrMalformedRecord indicates an order document could not be parsed
	// or is structurally invalid.
	ErrMalformedRecord = errors.New("malformed order record")

	// ErrDateParse indicates a timestamp field could not be interpreted.
	ErrDateParse = errors.New("timestamp parse failed")

	// ErrTypeCoercion indicates a field value could not be coerced to its
	// target type.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrKeyResolution indicates an entity is missing the natural key
	// required to resolve its identity.
	ErrKeyResolution = errors.New("natural key resolution failed")

	// ErrLoadFailed indicates the database load failed and the transaction
	// was rolled back.
	ErrLoadFailed = errors.New("load failed")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// MalformedRecordError reports a structural problem in an order document:
// unreadable JSON, a non-object root, or a required field that is missing
// or of the wrong shape.
type MalformedRecordError struct {
	File   string // source file the record came from
	Field  string // dotted path of the offending field, empty for document-level problems
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.File, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// DateParseError reports a timestamp value that matched none of the
// accepted layouts.
type DateParseError struct {
	File  string
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s: field %q: cannot parse %q as a timestamp", e.File, e.Field, e.Value)
}

func (e *DateParseError) Unwrap() error { return ErrDateParse }

// TypeCoercionError reports a field value outside the accepted
// representations for its target type.
type TypeCoercionError struct {
	File  string
	Field string
	Value any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%s: field %q: cannot coerce %v (%T)", e.File, e.Field, e.Value, e.Value)
}

func (e *TypeCoercionError) Unwrap() error { return ErrTypeCoercion }

// KeyResolutionError reports an entity section whose natural key field is
// missing or empty, leaving the entity unidentifiable.
type KeyResolutionError struct {
	File  string
	Table string // target table of the entity (e.g. "customers")
	Field string // dotted path of the natural key field
}

func (e *KeyResolutionError) Error() string {
	return fmt.Sprintf("%s: %s: natural key field %q is missing or empty", e.File, e.Table, e.Field)
}

func (e *KeyResolutionError) Unwrap() error { return ErrKeyResolution }

// LoadError reports a statement failure during the load transaction.
// The whole transaction is rolled back when one is returned.
type LoadError struct {
	Table string // table the failing statement targeted
	File  string // source file of the bundle being loaded
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s from %s: %v", e.Table, e.File, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoadFailed, e.Err} }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrNoOrderFiles):
		return ExitExtractError
	case errors.Is(err, ErrMalformedRecord):
		return ExitExtractError
	case errors.Is(err, ErrDateParse):
		return ExitTransformError
	case errors.Is(err, ErrTypeCoercion):
		return ExitTransformError
	case errors.Is(err, ErrKeyResolution):
		return ExitTransformError
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadError
	}

	// Cobra reports flag and argument misuse as plain errors
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "accepts ") {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
