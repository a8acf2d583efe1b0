// Package errs holds the error types shared by the store, repositories and
// HTTP handlers.
package errs

import (
	"errors"
	"fmt"
)

// Validation causes. Wrap them with Invalid so callers can tell which field failed.
var (
	ErrRequired           = errors.New("is required")
	ErrNotPositive        = errors.New("must be greater than zero")
	ErrNegative           = errors.New("must not be negative")
	ErrImageRequired      = errors.New("an image is required for a new product")
	ErrImageTooLarge      = errors.New("image must be 2MB or smaller")
	ErrInvalidImage       = errors.New("is not a readable image")
	ErrInvalidDate        = errors.New("must be a date in YYYY-MM-DD form")
	ErrUnknownBucket      = errors.New("is not a ledger bucket")
	ErrUnknownCategory    = errors.New("is not a category of this bucket")
	ErrUnknownPaymentMode = errors.New("must be UPI, Cash or Credit Card")
	ErrNoItems            = errors.New("needs at least one named item")
)

var (
	// ErrNotFound is returned by lookups. Mutations on a missing id are silent no-ops.
	ErrNotFound = errors.New("not found")

	// ErrConfirmationDeclined guards destructive operations.
	ErrConfirmationDeclined = errors.New("confirmation declined")
)

// ValidationError reports a missing or invalid field. Nothing was persisted.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError for field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// PersistenceError reports a failed store read or write. It is transient
// and never retried automatically.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it already is a PersistenceError.
func Persistence(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Collection: collection, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
