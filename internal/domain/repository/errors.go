package repository

import "errors"

// Common repository errors.
var (
	// ErrNotFound indicates no entry exists for the requested key.
	ErrNotFound = errors.New("not found")
)
