package events

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid event")
	ErrKey        = errors.New("invalid private key")
	ErrSigning    = errors.New("signing failed")
)

// ValidationError reports an event that does not satisfy the event model.
type ValidationError struct {
	Field  string
	Reason string
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// KeyError reports a private key that is not a usable secp256k1 scalar. A
// KeyError returned while signing is a signing failure too, so it matches both
// ErrKey and ErrSigning.
type KeyError struct {
	Reason string
	Err    error
}

func (e *KeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", ErrKey, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrKey, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func (e *KeyError) Is(target error) bool {
	return target == ErrKey || target == ErrSigning
}

// SigningError reports a failure to sign that is not caused by the key itself.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", ErrSigning, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrSigning, e.Reason)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

func (e *SigningError) Is(target error) bool {
	return target == ErrSigning
}
