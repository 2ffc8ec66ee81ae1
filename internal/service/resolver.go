package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/repository"
	"github.com/gravyapp/gravy/internal/utils"
)

// IdentityResolver maps a strategy-specific proof of identity to exactly one
// user row, creating it on first sight for provider identities.
type IdentityResolver struct {
	users  repository.UserRepository
	hasher *PasswordHasher
}

// NewIdentityResolver creates a new identity resolver
func NewIdentityResolver(users repository.UserRepository, hasher *PasswordHasher) *IdentityResolver {
	return &IdentityResolver{
		users:  users,
		hasher: hasher,
	}
}

// ResolveLocal resolves an email/password pair to an existing user.
func (r *IdentityResolver) ResolveLocal(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := r.users.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		return nil, err
	}

	if !user.HasLocalCredential() {
		return nil, fmt.Errorf("user %s: %w", user.ID, ErrNoLocalCredential)
	}

	if !r.hasher.Verify(password, *user.PasswordHash) {
		return nil, ErrInvalidCredential
	}

	return user, nil
}

// ResolveOrCreateProvider resolves a provider identity to a user, creating
// the user on first login. Re-login with the same (provider, external id) is
// idempotent and returns the existing row unchanged.
//
// A provider login whose profile email matches an existing local account
// still creates its own row; identities are never merged by email.
func (r *IdentityResolver) ResolveOrCreateProvider(ctx context.Context, providerName string, profile domain.ExternalProfile) (*domain.User, error) {
	user, err := r.users.GetByIdentity(ctx, providerName, profile.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = newUserFromProfile(providerName, profile)

	err = r.users.CreateWithIdentity(ctx, user, providerName, profile.ExternalID)
	if errors.Is(err, repository.ErrDuplicateIdentity) {
		// Lost a race with a concurrent first login; the winner's row is
		// the canonical one.
		return r.users.GetByIdentity(ctx, providerName, profile.ExternalID)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SignupLocal creates a new local account. The email unique constraint in
// the store decides duplicates, not a read-then-write check.
func (r *IdentityResolver) SignupLocal(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	sanitized := utils.SanitizeEmail(email)
	user := &domain.User{
		Email:        &sanitized,
		PasswordHash: &hash,
	}
	if displayName != "" {
		user.FullName = &displayName
	}

	if err := r.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func newUserFromProfile(providerName string, profile domain.ExternalProfile) *domain.User {
	user := &domain.User{
		Email:    profile.Email,
		ImageURL: profile.ImageURL,
		ProviderIDs: map[string]string{
			providerName: profile.ExternalID,
		},
	}
	if profile.FullName != "" {
		user.FullName = &profile.FullName
	}
	if profile.FirstName != "" {
		user.FirstName = &profile.FirstName
	}
	if profile.LastName != "" {
		user.LastName = &profile.LastName
	}
	return user
}
