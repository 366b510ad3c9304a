package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MuzBot/model"
)

// UserRepository defines persistent operations on bot users.
type UserRepository interface {
	// UpsertUser creates the user on first contact and refreshes their
	// profile fields afterwards.
	UpsertUser(ctx context.Context, telegramID int64, username, firstName string) error

	// GetUserByTelegramID returns a user, or ErrNotFound.
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)

	// CountUsers returns the total number of known users.
	CountUsers(ctx context.Context) (int64, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new user repository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

// UpsertUser creates or refreshes a user row.
func (r *mysqlUserRepository) UpsertUser(ctx context.Context, telegramID int64, username, firstName string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			username = VALUES(username), first_name = VALUES(first_name), updated_at = VALUES(updated_at)`,
		telegramID, username, firstName, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", telegramID, err)
	}
	return nil
}

// GetUserByTelegramID returns the user with the given telegram id.
func (r *mysqlUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_id, username, first_name, created_at, updated_at
		FROM users WHERE telegram_id = ?`, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.Username, &user.FirstName,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user %d: %w", telegramID, err)
	}
	return user, nil
}

// CountUsers returns the total number of known users.
func (r *mysqlUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
