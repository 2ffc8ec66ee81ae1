package service

import (
	"context"

	"github.com/gravyapp/gravy/internal/domain"
)

// Outcome is the result of a successful authentication attempt.
type Outcome struct {
	User         *domain.User
	SessionToken string
}

// AuthService is the single entry point for authentication attempts,
// signup, and session lifecycle.
type AuthService interface {
	// Attempt dispatches a credential to its strategy and, on success,
	// establishes a session and flips the user's presence flag on.
	// Any failure surfaces as ErrAuthenticationFailed.
	Attempt(ctx context.Context, cred Credential) (*Outcome, error)

	// SignupLocal creates a local account. It does not log the user in.
	SignupLocal(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Logout flips presence off (best effort) and destroys the session.
	Logout(ctx context.Context, token string) error

	// CurrentUser resolves a session token to its user, or (nil, nil)
	// when the session is absent.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
