package store

import (
	"context"
	"errors"

	"github.com/bookflowapp/bookflow-server/internal/domain"
	"github.com/bookflowapp/bookflow-server/internal/id"
)

// CreateSession stores a new session. The store assigns the ID.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = id.MustGenerate("sess")
	}
	return s.Sessions.Create(ctx, session)
}

// GetSessionByTokenHash retrieves a session by its refresh token hash.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	session, err := s.Sessions.GetByIndex(ctx, "token", tokenHash)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession overwrites an existing session, e.g. on token rotation.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	err := s.Sessions.Update(ctx, session)
	if errors.Is(err, ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// DeleteSession removes a session. Deleting a missing session is not an
// error so logout is idempotent.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}
