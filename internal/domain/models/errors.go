package models

import "fmt"

// ValidationError marks caller-supplied input as out of range or malformed.
// It is the only error the compute entry point surfaces synchronously.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// CalculationError marks a chart computation that could not be produced.
type CalculationError struct {
	Module string
	Err    error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s calculation failed: %v", e.Module, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// NewCalculationError wraps err with the failing module's name.
func NewCalculationError(module string, err error) *CalculationError {
	return &CalculationError{Module: module, Err: err}
}
