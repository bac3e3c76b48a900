package cradle

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is returned when a configuration document or fixture doesn't exist.
	ErrResourceNotFound = errors.New("cradleconf: resource not found")

	// ErrMapping is returned when a document doesn't match the record shape.
	ErrMapping = errors.New("cradleconf: document does not match record shape")

	// ErrAssertionMismatch is returned when a decoded record differs from the expected one.
	ErrAssertionMismatch = errors.New("cradleconf: decoded record differs from expected")

	// ErrUnknownKind is returned when no record type is registered for a configuration id.
	ErrUnknownKind = errors.New("cradleconf: unknown configuration kind")

	// ErrAlreadyExists is returned when creating a document whose id is already stored.
	ErrAlreadyExists = errors.New("cradleconf: document already exists")

	// ErrConcurrentModification is returned when optimistic lock fails (version mismatch).
	ErrConcurrentModification = errors.New("cradleconf: document was modified concurrently")
)

// MappingError carries field-level detail for ErrMapping.
type MappingError struct {
	// Kind is the configuration id of the target record.
	Kind string

	// Field is the offending document key. Empty when the whole document is malformed.
	Field string

	// Reason is a short description such as "missing field" or "unknown field".
	Reason string

	// Err is the underlying decoder error, if any.
	Err error
}

func (e *MappingError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrMapping, e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MappingError) Is(target error) bool { return target == ErrMapping }

func (e *MappingError) Unwrap() error { return e.Err }

// MismatchError carries the structural diff for ErrAssertionMismatch.
type MismatchError struct {
	Kind string

	// Diff is the (-expected +got) diff of the two records.
	Diff string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s (-expected +got):\n%s", ErrAssertionMismatch, e.Kind, e.Diff)
}

func (e *MismatchError) Is(target error) bool { return target == ErrAssertionMismatch }
