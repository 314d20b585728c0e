/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error kinds in one place. Callers match with errors.Is/As; the API
  layer maps them to HTTP statuses.

ERROR CATEGORIES:
  1. Validation errors - malformed or out-of-range fields, rejected
     before anything enters the store
  2. Import errors     - backup documents with the wrong shape
  3. Storage errors    - the persistence collaborator is unavailable;
     the engine degrades to memory-only, it never depends on storage

Reconciliation itself never returns errors for out-of-range inputs: a
cutoff before the first due date yields an empty ledger, not a failure.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all field validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrImportFormat is returned when a backup document is missing
	// required top-level fields or has wrong types. The import is
	// aborted wholesale; in-memory state is untouched.
	ErrImportFormat = errors.New("invalid backup format")

	// ErrStorageUnavailable is returned when the persistence collaborator
	// cannot be read or written. Not fatal: the engine keeps operating on
	// in-memory state for the session.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPaymentNotFound is returned when an edit or removal references
	// an id that is not in the collection.
	ErrPaymentNotFound = errors.New("payment not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError reports a single invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// IsClientError reports whether the error is due to bad caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrImportFormat)
}
