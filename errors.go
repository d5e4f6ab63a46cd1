package recipebook

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry and storage operations.
// All use prefix "recipebook:" for identification. Callers should use errors.Is/errors.As.
var (
	ErrCreate          = errors.New("recipebook: failed to create recipe")
	ErrNotFound        = errors.New("recipebook: recipe not found")
	ErrRead            = errors.New("recipebook: failed to read recipe")
	ErrUpdate          = errors.New("recipebook: failed to update recipe")
	ErrDelete          = errors.New("recipebook: failed to delete recipe")
	ErrList            = errors.New("recipebook: failed to get available recipes")
	ErrInvalidName     = errors.New("recipebook: invalid recipe name or id")
	ErrInvalidFields   = errors.New("recipebook: recipe fields are invalid")
	ErrInvalidRecord   = errors.New("recipebook: stored record is malformed")
	ErrInvalidManifest = errors.New("recipebook: manifest is malformed")
	ErrObjectNotFound  = errors.New("recipebook: object not found in storage")
	ErrAlreadyExists   = errors.New("recipebook: object already exists")
	ErrReadOnly        = errors.New("recipebook: storage is read-only")
)

// OperationError reports a failed registry operation.
// Kind is one of the operation sentinels (ErrCreate, ErrNotFound, ...); Err is the cause.
// Both are reachable through errors.Is.
type OperationError struct {
	Op   string
	ID   string
	Kind error
	Err  error
}

// Error implements error.
func (e *OperationError) Error() string {
	msg := e.Kind.Error()
	if e.ID != "" {
		msg += fmt.Sprintf(" (%s %q)", e.Op, e.ID)
	} else {
		msg += " (" + e.Op + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the kind and the cause for errors.Is/errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Compile-time check that OperationError implements error.
var _ error = (*OperationError)(nil)
