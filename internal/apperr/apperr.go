// Package apperr defines the error classes shared by quiztick packages.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure classes. Callers classify with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrResourceUnavailable  = errors.New("resource unavailable")
)

// OpError wraps an underlying error with the operation that produced it.
type OpError struct {
	Op     string
	Detail string
	Err    error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := e.Op
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		base += fmt.Sprintf(" (%s)", e.Detail)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an OpError for op wrapping kind, with a formatted detail message.
func New(op string, kind error, format string, args ...any) error {
	return &OpError{Op: op, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches op to err. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
