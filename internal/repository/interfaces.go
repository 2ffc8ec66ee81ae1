package repository

import (
	"context"

	"github.com/gravyapp/gravy/internal/domain"
)

// UserRepository defines the lookup and mutation shapes the auth core needs.
// These are the only query shapes against the users collection.
type UserRepository interface {
	// Create inserts a new user. The email unique constraint is the source
	// of truth for duplicates; a violation surfaces as ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) error

	// CreateWithIdentity inserts a new user together with its provider
	// identity in one transaction. A duplicate (provider, external id)
	// surfaces as ErrDuplicateIdentity.
	CreateWithIdentity(ctx context.Context, user *domain.User, provider, externalID string) error

	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentity(ctx context.Context, provider, externalID string) (*domain.User, error)

	// SetOnline persists the presence flag for a user.
	SetOnline(ctx context.Context, userID string, online bool) error
}

// ContactMessageRepository defines methods for contact form messages
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	List(ctx context.Context, limit int) ([]*domain.ContactMessage, error)
}
