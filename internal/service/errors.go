package service

import "errors"

// Authentication error kinds. The strategy router never leaks these to the
// end user; they exist for logging and telemetry.
var (
	// ErrInvalidCredential is returned when a password does not match
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNoLocalCredential is returned when a provider-only account is used
	// for a local login
	ErrNoLocalCredential = errors.New("account has no local credential")

	// ErrWeakPassword is returned on signup when the password is too short
	ErrWeakPassword = errors.New("password must be at least 8 characters long")

	// ErrHashing is returned when bcrypt fails
	ErrHashing = errors.New("password hashing failed")

	// ErrUnknownStrategy is returned when no strategy matches a credential
	ErrUnknownStrategy = errors.New("unknown authentication strategy")

	// ErrAuthenticationFailed is the single error the router surfaces to
	// callers for any failed attempt, so the response never reveals
	// whether the email exists or the password was wrong.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
