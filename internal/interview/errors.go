package interview

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrUnsupportedDocument   = errors.New("unsupported document")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrEmptyGeneration       = errors.New("empty generation")
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// Cause distinguishes "try later" from "misconfigured" generation failures.
type Cause string

const (
	CauseTransient     Cause = "transient"
	CauseConfiguration Cause = "configuration"
	CauseCanceled      Cause = "canceled"
)

// UnavailableError reports a model call that failed for good.
type UnavailableError struct {
	Cause    Cause
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable (%s after %d attempt(s)): %v", e.Cause, e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrGenerationUnavailable, e.Err}
}

// Retryable reports whether the caller may reasonably try again later.
func (e *UnavailableError) Retryable() bool {
	return e.Cause == CauseTransient
}
