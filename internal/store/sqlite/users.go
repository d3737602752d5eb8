package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/store"
)

// CreateUser inserts a new user.
// Returns store.ErrEmailInUse if the email (or id) already exists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email_lower, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		domain.NormalizeEmail(user.Email),
		data,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrEmailInUse
	}
	return err
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT data FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT data FROM users WHERE email_lower = ?`, domain.NormalizeEmail(email))
}

func (s *Store) getUser(ctx context.Context, query, arg string) (*domain.User, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// UpdateUser applies fn to the stored user inside one transaction.
func (s *Store) UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	return mutate(ctx, s.db, "users", id, store.ErrUserNotFound, fn, func(tx *sql.Tx, u *domain.User, data []byte) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE users SET email_lower = ?, data = ?, updated_at = ? WHERE id = ?`,
			domain.NormalizeEmail(u.Email), data, formatTime(u.UpdatedAt), u.ID)
		if isUniqueViolation(err) {
			return store.ErrEmailInUse
		}
		return err
	})
}

// ListUsers returns all users in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return scanDocs[domain.User](rows)
}
