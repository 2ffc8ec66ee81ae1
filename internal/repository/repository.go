package repository

import (
	"github.com/gravyapp/gravy/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Contact ContactMessageRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Contact: NewContactMessageRepository(db),
	}
}
