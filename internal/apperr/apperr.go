// Package apperr holds the error kinds shared by every module.
// Callers classify with errors.Is; producers wrap with fmt.Errorf("%w").
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict reports a duplicate barcode or username detected before a write.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned by mutations that target a missing row.
	// Lookups never return it; they return a nil result instead.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps any storage-layer failure.
	ErrPersistence = errors.New("persistence error")
	// ErrValidation reports malformed input.
	ErrValidation = errors.New("validation failed")
)

// Persistence wraps a storage error so that errors.Is(err, ErrPersistence) holds
// while the driver error stays reachable through errors.Unwrap chains.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Conflict builds an ErrConflict with a human readable reason.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Invalid builds an ErrValidation with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound naming the missing entity.
func NotFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}
