package services

import "errors"

var (
	// ErrSlugTaken is returned when a listing commit loses the slug race to
	// a concurrent writer. The generator probed uniqueness immediately
	// before the write, so this signals an exceptional condition; whether
	// to regenerate and retry is the caller's decision.
	ErrSlugTaken = errors.New("a listing with this slug already exists")

	// ErrEmailTaken is returned when a user save collides with an existing
	// email address.
	ErrEmailTaken = errors.New("a user with this email already exists")

	// ErrInvalidCredentials is returned on login for both an unknown email
	// and a wrong password, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrListingNotFound is returned by write operations targeting a
	// listing that does not exist. Read lookups signal absence with a nil
	// result instead.
	ErrListingNotFound = errors.New("listing not found")
)
