package errors

import (
	stderrors "errors"
	"fmt"
)

// SchemaError reports that a recording is missing a structurally required
// column. It is fatal to the load: no partial SignalTable is returned.
type SchemaError struct {
	Source string // input identifier, usually the file path
	Column string // the missing column name
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("[%s] required column %q missing in %s", ErrTypeSchema, e.Column, e.Source)
}

// NewSchemaError creates a SchemaError for the given source and column.
func NewSchemaError(source, column string) *SchemaError {
	return &SchemaError{Source: source, Column: column}
}

// IsSchemaError reports whether err wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return stderrors.As(err, &se)
}

// StaticExportHint tells the operator how to enable static image export.
const StaticExportHint = "static PNG/PDF export needs a Chrome or Chromium binary on PATH; install one to enable it"

// StaticExportError reports that the optional static-image backend could not
// produce its artifacts. It is never fatal: the interactive export has
// already succeeded when this error is raised, so callers log it with Hint
// and continue.
type StaticExportError struct {
	Hint  string
	Cause error
}

func (e *StaticExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] static export unavailable: %v", ErrTypeStaticExport, e.Cause)
	}
	return fmt.Sprintf("[%s] static export unavailable", ErrTypeStaticExport)
}

func (e *StaticExportError) Unwrap() error {
	return e.Cause
}

// NewStaticExportError wraps a static-backend failure with the standard hint.
func NewStaticExportError(cause error) *StaticExportError {
	return &StaticExportError{Hint: StaticExportHint, Cause: cause}
}

// IsStaticExportError reports whether err wraps a StaticExportError.
func IsStaticExportError(err error) bool {
	var se *StaticExportError
	return stderrors.As(err, &se)
}
