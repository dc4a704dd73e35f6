package request

import (
	"errors"
	"fmt"
)

// Validation failures. Each aborts the operation being built.
var (
	ErrRequiredField    = errors.New("required field is empty")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnsafeInput      = errors.New("input contains characters that are not allowed")
)

// ValidationError describes a rejected operator answer.
// Error returns the message shown to the operator.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is one of the validation failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrRequiredField) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrUnsafeInput)
}

func required(field, label string) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s is required.", label),
		Err:     ErrRequiredField,
	}
}

func invalidSelection(field, label string, cause error) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid %s selection.", label),
		Err:     fmt.Errorf("%w: %w", ErrInvalidSelection, cause),
	}
}

func unsafe(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     ErrUnsafeInput,
	}
}
