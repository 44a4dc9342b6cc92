package model

import (
	"errors"
	"fmt"
)

// MissingFieldFormat is the message template for an absent required field.
// The verb is filled with the field's display name.
const MissingFieldFormat = "Internship's %s field is missing!"

// Sentinel errors matched by every FieldError of the corresponding kind.
var (
	// ErrMissingField indicates a required field was absent.
	ErrMissingField = errors.New("missing field")

	// ErrConstraintViolation indicates a field was present but malformed.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ErrorKind distinguishes an absent field from a malformed one.
type ErrorKind int

const (
	KindMissing ErrorKind = iota + 1
	KindConstraint
)

// FieldError reports the first field that failed conversion. Error returns
// the contract message verbatim so callers can surface it unchanged.
type FieldError struct {
	Field   Field
	Kind    ErrorKind
	Message string
}

// MissingFieldError returns the error for an absent required field.
func MissingFieldError(f Field) *FieldError {
	return &FieldError{
		Field:   f,
		Kind:    KindMissing,
		Message: fmt.Sprintf(MissingFieldFormat, f),
	}
}

// ConstraintError returns the error for a field that failed its syntax rule.
func ConstraintError(f Field) *FieldError {
	return &FieldError{
		Field:   f,
		Kind:    KindConstraint,
		Message: f.Constraint(),
	}
}

func (e *FieldError) Error() string {
	return e.Message
}

// Unwrap exposes the kind's sentinel so errors.Is works on wrapped chains.
func (e *FieldError) Unwrap() error {
	switch e.Kind {
	case KindMissing:
		return ErrMissingField
	case KindConstraint:
		return ErrConstraintViolation
	default:
		return nil
	}
}
