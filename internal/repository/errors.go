package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateIdentity is returned when a (provider, external id) pair
	// already belongs to a user
	ErrDuplicateIdentity = errors.New("provider identity already exists")
)
