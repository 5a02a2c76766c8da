package core

import "errors"

// Common errors.
var (
	ErrReadOnly      = errors.New("store is in read-only mode")
	ErrMissingID     = errors.New("article has no identifier")
	ErrNotFound      = errors.New("article not found")
	ErrSeedExhausted = errors.New("store still empty after seeding")
)
