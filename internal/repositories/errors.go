package repositories

import "errors"

var (
	// ErrDuplicateKey reports that a write violated a store uniqueness
	// constraint (user email or listing slug). Callers decide whether to
	// regenerate, retry or report the conflict; it is never retried here.
	ErrDuplicateKey = errors.New("duplicate key violates a unique constraint")

	// ErrNotFound reports that an update or delete targeted a row that does
	// not exist. Plain lookups signal absence with a nil entity instead.
	ErrNotFound = errors.New("record not found")
)
