package gen

import (
	"fmt"

	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// Error is the base interface for all generation errors.
type Error interface {
	error
	Pointer() uispec.Pointer
}

// baseError provides common error functionality.
type baseError struct {
	ptr uispec.Pointer
	msg string
}

func (e *baseError) Pointer() uispec.Pointer { return e.ptr }
func (e *baseError) Message() string         { return e.msg }
func (e *baseError) Error() string {
	return fmt.Sprintf("%s (at %s)", e.msg, e.ptr.Display())
}

// InputError is a schema violation in the UI document. It aborts the run.
type InputError struct {
	baseError
	File string
}

// NewInputErrorf creates a new input error with formatting.
func NewInputErrorf(ptr uispec.Pointer, format string, args ...any) *InputError {
	return &InputError{baseError: baseError{ptr: ptr, msg: fmt.Sprintf(format, args...)}}
}

func (e *InputError) Error() string {
	base := e.baseError.Error()
	if e.File != "" {
		return e.File + ": " + base
	}
	return base
}

// SemanticError is a problem confined to one node or attribute: it is
// reported, replaced by a warning comment, and generation continues.
type SemanticError struct {
	baseError
	Cause error
}

// NewSemanticErrorf creates a new semantic error with formatting.
func NewSemanticErrorf(ptr uispec.Pointer, format string, args ...any) *SemanticError {
	return &SemanticError{baseError: baseError{ptr: ptr, msg: fmt.Sprintf(format, args...)}}
}

// WrapSemanticError wraps an underlying error as a semantic error.
func WrapSemanticError(ptr uispec.Pointer, msg string, cause error) *SemanticError {
	return &SemanticError{baseError: baseError{ptr: ptr, msg: msg}, Cause: cause}
}

func (e *SemanticError) Error() string {
	base := e.baseError.Error()
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *SemanticError) Unwrap() error {
	return e.Cause
}

// Diagnostic is one reported warning.
type Diagnostic struct {
	Pointer string
	Message string
}

func (d Diagnostic) String() string {
	return d.Message + " (at " + d.Pointer + ")"
}

// Diagnostics collects warnings in report order.
type Diagnostics []Diagnostic

// Messages returns just the messages.
func (ds Diagnostics) Messages() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}
