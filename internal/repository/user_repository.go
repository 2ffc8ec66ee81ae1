package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/pkg/database"
)

// unique_violation
const pqUniqueViolation = "23505"

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, fullname, firstname, lastname, image_url, online, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	prepareUser(user)

	_, err := r.db.DB.ExecContext(ctx, query, userArgs(user)...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("failed to create user: %w", ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// CreateWithIdentity creates a user and its provider identity atomically.
// Either both rows exist afterwards or neither does.
func (r *userRepository) CreateWithIdentity(ctx context.Context, user *domain.User, provider, externalID string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prepareUser(user)

	userQuery := `
		INSERT INTO users (id, email, password_hash, fullname, firstname, lastname, image_url, online, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := tx.ExecContext(ctx, userQuery, userArgs(user)...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("failed to create user: %w", ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	identityQuery := `
		INSERT INTO user_identities (id, user_id, provider, external_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, identityQuery, uuid.New().String(), user.ID, provider, externalID, time.Now()); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("identity %s/%s already linked: %w", provider, externalID, ErrDuplicateIdentity)
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}

	if user.ProviderIDs == nil {
		user.ProviderIDs = make(map[string]string)
	}
	user.ProviderIDs[provider] = externalID

	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, fullname, firstname, lastname, image_url, online, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := r.loadIdentities(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, fullname, firstname, lastname, image_url, online, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := r.loadIdentities(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByIdentity retrieves the user owning a (provider, external id) pair
func (r *userRepository) GetByIdentity(ctx context.Context, provider, externalID string) (*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.fullname, u.firstname, u.lastname, u.image_url, u.online, u.created_at, u.updated_at
		FROM users u
		JOIN user_identities i ON i.user_id = u.id
		WHERE i.provider = $1 AND i.external_id = $2
	`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, provider, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity %s/%s not found: %w", provider, externalID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by identity: %w", err)
	}

	if err := r.loadIdentities(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetOnline persists the presence flag for a user
func (r *userRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	query := `UPDATE users SET online = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, online, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
	}

	return nil
}

func (r *userRepository) loadIdentities(ctx context.Context, user *domain.User) error {
	query := `SELECT provider, external_id FROM user_identities WHERE user_id = $1`

	rows, err := r.db.DB.QueryContext(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load identities: %w", err)
	}
	defer rows.Close()

	user.ProviderIDs = make(map[string]string)
	for rows.Next() {
		var provider, externalID string
		if err := rows.Scan(&provider, &externalID); err != nil {
			return fmt.Errorf("failed to scan identity: %w", err)
		}
		user.ProviderIDs[provider] = externalID
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate identities: %w", err)
	}

	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var email, passwordHash, fullname, firstname, lastname, imageURL sql.NullString

	err := row.Scan(
		&user.ID,
		&email,
		&passwordHash,
		&fullname,
		&firstname,
		&lastname,
		&imageURL,
		&user.Online,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = nullableString(email)
	user.PasswordHash = nullableString(passwordHash)
	user.FullName = nullableString(fullname)
	user.FirstName = nullableString(firstname)
	user.LastName = nullableString(lastname)
	user.ImageURL = nullableString(imageURL)

	return user, nil
}

func prepareUser(user *domain.User) {
	// Generate UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
}

func userArgs(user *domain.User) []any {
	return []any{
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.FirstName,
		user.LastName,
		user.ImageURL,
		user.Online,
		user.CreatedAt,
		user.UpdatedAt,
	}
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
