package repository

import "errors"

var (
	// ErrNotFound is returned when an entity identifier does not resolve.
	// Transport failures are returned as-is and never wrap ErrNotFound.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint rejects a write
	ErrConflict = errors.New("conflict")
)
