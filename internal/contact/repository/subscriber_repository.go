package repository

import (
	"context"
	"database/sql"
	"fmt"

	"angelina/internal/domain"
	"angelina/internal/errors"
	"angelina/internal/infrastructure/mysql"
)

type MySQLSubscriberRepository struct {
	db *sql.DB
}

func NewMySQLSubscriberRepository(db *sql.DB) *MySQLSubscriberRepository {
	return &MySQLSubscriberRepository{db: db}
}

func (r *MySQLSubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	query := `SELECT id, email, subscribed_at FROM newsletter_subscribers WHERE email = ?`

	var s domain.NewsletterSubscriber
	err := r.db.QueryRowContext(ctx, query, email).Scan(&s.ID, &s.Email, &s.SubscribedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("subscriber %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying subscriber by email: %w", err)
	}

	return &s, nil
}

// Insert adds a subscriber. A unique-key violation means another request
// subscribed the same address first and is reported as a ConflictError.
func (r *MySQLSubscriberRepository) Insert(ctx context.Context, email string) (int64, error) {
	query := `INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES (?, NOW())`

	result, err := r.db.ExecContext(ctx, query, email)
	if mysql.IsDuplicateEntry(err) {
		return 0, errors.NewConflictError(fmt.Sprintf("subscriber %s already exists", email))
	}
	if err != nil {
		return 0, fmt.Errorf("inserting subscriber: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}
