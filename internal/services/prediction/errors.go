package prediction

import (
	"bodyfat/pkg/errors"
)

// ErrorKind tags why a prediction failed
type ErrorKind string

const (
	// KindConfiguration: unroutable variant, estimator or importance key missing
	KindConfiguration ErrorKind = "configuration"
	// KindInput: missing or non-numeric measurement
	KindInput ErrorKind = "input"
	// KindEstimation: the regression call failed
	KindEstimation ErrorKind = "estimation"
)

// String returns string representation
func (k ErrorKind) String() string {
	return string(k)
}

// Error is the only error type Predict returns
type Error struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

func sentinelFor(kind ErrorKind) error {
	switch kind {
	case KindConfiguration:
		return errors.ErrConfiguration
	case KindInput:
		return errors.ErrInvalidInput
	default:
		return errors.ErrEstimation
	}
}

// newError tags err with kind and makes sure it matches the kind's sentinel
func newError(kind ErrorKind, err error) *Error {
	sentinel := sentinelFor(kind)
	if !errors.Is(err, sentinel) {
		err = errors.Newf("%w: %w", sentinel, err)
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of a prediction error, or "" for other errors
func KindOf(err error) ErrorKind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return ""
}
