package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the kind of every request validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the offending query parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func newValidationError(param, reason string) *ValidationError {
	return &ValidationError{Param: param, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Param, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
