package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/repository"
	"github.com/gravyapp/gravy/pkg/database"
)

// SessionStore maps opaque session tokens to user ids. Lifetime of an
// entry is owned entirely by the store.
type SessionStore interface {
	Save(ctx context.Context, token, userID string) error
	// Get returns the user id for a token, or "" when the token is unknown.
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in Redis under session:<token>.
type RedisSessionStore struct {
	redis *database.Redis
	ttl   time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store. ttl is the
// store's own lifecycle bound for entries, not token expiry logic.
func NewRedisSessionStore(r *database.Redis, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: r, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, token, userID string) error {
	key := fmt.Sprintf("session:%s", token)
	if err := s.redis.Client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf("session:%s", token)
	userID, err := s.redis.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	key := fmt.Sprintf("session:%s", token)
	if err := s.redis.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SessionManager converts an authenticated user into an opaque session
// token and back. The token carries nothing but entropy; everything else
// lives server-side.
type SessionManager struct {
	store SessionStore
	users repository.UserRepository
}

// NewSessionManager creates a new session manager
func NewSessionManager(store SessionStore, users repository.UserRepository) *SessionManager {
	return &SessionManager{
		store: store,
		users: users,
	}
}

// Issue establishes a session for a user and returns its token.
func (m *SessionManager) Issue(ctx context.Context, user *domain.User) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	if err := m.store.Save(ctx, token, user.ID); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve maps a token back to its user. An unknown token, or a token whose
// user no longer exists, resolves to (nil, nil): not authenticated, not an
// error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	user, err := m.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// 256 bits of entropy, base64url without padding
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
