package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository used across the service tests.
type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[string]*domain.User
	failSetOnline bool
	failCreate    bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate {
		return errors.New("store unavailable")
	}

	if user.Email != nil {
		for _, u := range f.users {
			if u.Email != nil && *u.Email == *user.Email {
				return repository.ErrDuplicateEmail
			}
		}
	}

	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) CreateWithIdentity(ctx context.Context, user *domain.User, provider, externalID string) error {
	f.mu.Lock()
	for _, u := range f.users {
		if u.ProviderIDs[provider] == externalID {
			f.mu.Unlock()
			return repository.ErrDuplicateIdentity
		}
	}
	f.mu.Unlock()

	if err := f.Create(ctx, user); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ProviderIDs == nil {
		user.ProviderIDs = make(map[string]string)
	}
	user.ProviderIDs[provider] = externalID
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByIdentity(ctx context.Context, provider, externalID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ProviderIDs[provider] == externalID {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetOnline(ctx context.Context, userID string, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSetOnline {
		return errors.New("store unavailable")
	}

	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Online = online
	return nil
}

func (f *fakeUserRepo) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	failSave bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (f *fakeSessionStore) Save(ctx context.Context, token, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSave {
		return errors.New("store unavailable")
	}
	f.sessions[token] = userID
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[token], nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func str(s string) *string { return &s }
