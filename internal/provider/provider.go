// Package provider implements the external identity provider exchanges.
// Each provider trades an OAuth authorization code for a normalized
// ExternalProfile; everything past that point is strategy-agnostic.
package provider

import (
	"context"
	"errors"

	"github.com/gravyapp/gravy/internal/domain"
)

// ErrExchange wraps any failure during the code-for-profile exchange.
var ErrExchange = errors.New("provider exchange failed")

// Provider is one external identity provider.
type Provider interface {
	Name() string

	// AuthURL returns the provider's authorization URL for a given CSRF
	// state value.
	AuthURL(state string) string

	// Exchange trades the callback authorization code for a normalized
	// profile. Failures wrap ErrExchange.
	Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error)
}

// Registry maps provider name to implementation.
type Registry map[string]Provider

// Names returns the registered provider names.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
