package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/pkg/database"
)

// contactMessageRepository implements ContactMessageRepository interface
type contactMessageRepository struct {
	db *database.Postgres
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *database.Postgres) ContactMessageRepository {
	return &contactMessageRepository{db: db}
}

// Create stores a contact form message
func (r *contactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Body, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	return nil
}

// List returns the most recent contact messages
func (r *contactMessageRepository) List(ctx context.Context, limit int) ([]*domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, body, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ContactMessage
	for rows.Next() {
		msg := &domain.ContactMessage{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}

	return messages, nil
}
