package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookflowapp/bookflow-server/internal/domain"
	domainerrors "github.com/bookflowapp/bookflow-server/internal/errors"
	"github.com/bookflowapp/bookflow-server/internal/store"
)

// AdminService implements administrative operations: user approval and
// store maintenance. Handlers gate these behind an admin check.
type AdminService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store *store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
	}
}

// ListUsers returns every user account, password hashes stripped.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ListPendingUsers returns accounts awaiting approval.
func (s *AdminService) ListPendingUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	pending := []domain.User{}
	for i := range users {
		if users[i].IsPending() {
			users[i].PasswordHash = ""
			pending = append(pending, users[i])
		}
	}
	return pending, nil
}

// ApproveUser activates a pending account.
func (s *AdminService) ApproveUser(ctx context.Context, adminID, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPending() {
		return nil, domainerrors.Conflict("user is not pending approval")
	}

	user.Status = domain.UserStatusActive
	user.ApprovedBy = adminID
	user.ApprovedAt = time.Now()
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User approved",
			"user_id", userID,
			"approved_by", adminID,
		)
	}

	user.PasswordHash = ""
	return user, nil
}

// AdoptOrphanBooks claims ownerless book documents for the given user.
// Returns the number of books adopted.
func (s *AdminService) AdoptOrphanBooks(ctx context.Context, ownerID string) (int, error) {
	return s.store.AdoptOrphanBooks(ctx, ownerID)
}
