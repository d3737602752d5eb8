package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinetag/cinetag-server/internal/domain"
)

// CreateUser stores a new user. Returns ErrEmailInUse if the email is taken.
func (s *BadgerStore) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrEmailInUse
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *BadgerStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.Get(ctx, id)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// UpdateUser applies fn to the stored user atomically.
func (s *BadgerStore) UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	return s.Users.Mutate(ctx, id, fn)
}

// ListUsers returns all users.
func (s *BadgerStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.Users.Collect(ctx)
}
