package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrFieldsRequired is returned when a signup misses name, email or password.
	ErrFieldsRequired = errors.New("all fields required")
	// ErrUserExists is the conflict raised when an email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedRecord matches every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")
)

// ValidationError describes a rejected client input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MalformedRecordError is raised when a stored transaction lacks a field
// that aggregation needs.
type MalformedRecordError struct {
	ID    int64
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("transaction %d: missing %s", e.ID, e.Field)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }
