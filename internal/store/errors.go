package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store.not_found")
	// ErrDuplicate is returned on a uniqueness violation.
	ErrDuplicate = errors.New("store.duplicate")
	// ErrReference is returned when a row references a missing parent.
	ErrReference = errors.New("store.invalid_reference")
)
