package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the marker does not exist (or vanished between
	// the ownership check and the mutation).
	ErrNotFound = errors.New("marker not found")

	// ErrForbidden means the acting identity is not the marker's owner.
	ErrForbidden = errors.New("not the marker owner")

	// ErrNoFields means an update carried nothing to change. Distinct
	// from ErrNotFound so callers can report "nothing to update".
	ErrNoFields = errors.New("no valid fields to update")

	// ErrTokenExpired and ErrInvalidToken come back from the identity
	// verifier collaborator.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError rejects malformed or missing input before any storage
// call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StorageError wraps a database failure (constraint violation or
// transient fault).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a collaborator failure (e.g. the image
// store). It aborts the enclosing operation.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
