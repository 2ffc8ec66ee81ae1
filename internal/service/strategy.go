package service

import (
	"context"
	"fmt"

	"github.com/gravyapp/gravy/internal/domain"
)

// StrategyLocal is the name of the email/password strategy. Provider
// strategies are named after their provider ("facebook", "google", ...).
const StrategyLocal = "local"

// Credential is a strategy-specific proof of identity. Each credential
// names the strategy that can validate it, which is how the router
// dispatches without a global registry.
type Credential interface {
	Strategy() string
}

// LocalCredential is an email/password pair from a login form.
type LocalCredential struct {
	Email    string
	Password string
}

func (LocalCredential) Strategy() string { return StrategyLocal }

// ProviderCredential is a normalized external profile obtained from a
// provider's token exchange.
type ProviderCredential struct {
	Provider string
	Profile  domain.ExternalProfile
}

func (c ProviderCredential) Strategy() string { return c.Provider }

// Strategy validates one kind of credential and resolves it to a user.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, cred Credential) (*domain.User, error)
}

// localStrategy authenticates email/password against stored hashes.
type localStrategy struct {
	resolver *IdentityResolver
}

// NewLocalStrategy creates the email/password strategy
func NewLocalStrategy(resolver *IdentityResolver) Strategy {
	return &localStrategy{resolver: resolver}
}

func (s *localStrategy) Name() string { return StrategyLocal }

func (s *localStrategy) Authenticate(ctx context.Context, cred Credential) (*domain.User, error) {
	local, ok := cred.(LocalCredential)
	if !ok {
		return nil, fmt.Errorf("%w: local strategy given %T", ErrUnknownStrategy, cred)
	}
	return s.resolver.ResolveLocal(ctx, local.Email, local.Password)
}

// providerStrategy finds-or-creates the user for an external identity.
type providerStrategy struct {
	name     string
	resolver *IdentityResolver
}

// NewProviderStrategy creates a strategy for one external identity provider
func NewProviderStrategy(name string, resolver *IdentityResolver) Strategy {
	return &providerStrategy{name: name, resolver: resolver}
}

func (s *providerStrategy) Name() string { return s.name }

func (s *providerStrategy) Authenticate(ctx context.Context, cred Credential) (*domain.User, error) {
	pc, ok := cred.(ProviderCredential)
	if !ok || pc.Provider != s.name {
		return nil, fmt.Errorf("%w: %s strategy given %T", ErrUnknownStrategy, s.name, cred)
	}
	return s.resolver.ResolveOrCreateProvider(ctx, s.name, pc.Profile)
}
