package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookflowapp/bookflow-server/internal/domain"
	"github.com/bookflowapp/bookflow-server/internal/id"
)

// CreateUser stores a new user. The store assigns the ID. A duplicate email
// (compared case-insensitively) fails with ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = id.MustGenerate("user")
	}

	err := s.Users.Create(ctx, user)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites an existing user record.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	err := s.Users.Update(ctx, user)
	if errors.Is(err, ErrNotFound) {
		return ErrUserNotFound
	}
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		users = append(users, *user)
	}
	return users, nil
}

// CountUsers returns the number of registered users. The first account is
// created through setup, which uses this to tell whether setup has run.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.Users.Count(ctx)
}
