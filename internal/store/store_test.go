package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookflowapp/bookflow-server/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestCreateUser_AssignsID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := &domain.User{Email: "alice@example.com", DisplayName: "Alice"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{Email: "alice@example.com"}))

	err := s.CreateUser(ctx, &domain.User{Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists, "email uniqueness must ignore case")
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := &domain.User{Email: "Bob@Example.COM"}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_ChangesSurvive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := &domain.User{Email: "carol@example.com", Status: domain.UserStatusPending}
	require.NoError(t, s.CreateUser(ctx, user))

	user.Status = domain.UserStatusActive
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusActive, got.Status)
}

func TestCountUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.CreateUser(ctx, &domain.User{Email: "a@example.com"}))
	require.NoError(t, s.CreateUser(ctx, &domain.User{Email: "b@example.com"}))

	count, err = s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "index keys must not be counted as users")
}

func TestSessions_Lifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := &domain.Session{UserID: "user-1", RefreshTokenHash: "hash-abc"}
	require.NoError(t, s.CreateSession(ctx, session))
	require.NotEmpty(t, session.ID)

	got, err := s.GetSessionByTokenHash(ctx, "hash-abc")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	// Rotation: the old hash stops resolving, the new one takes over.
	got.RefreshTokenHash = "hash-def"
	require.NoError(t, s.UpdateSession(ctx, got))

	_, err = s.GetSessionByTokenHash(ctx, "hash-abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	got2, err := s.GetSessionByTokenHash(ctx, "hash-def")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got2.ID)

	require.NoError(t, s.DeleteSession(ctx, session.ID))
	require.NoError(t, s.DeleteSession(ctx, session.ID), "logout must be idempotent")

	_, err = s.GetSessionByTokenHash(ctx, "hash-def")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, s.CreateUser(ctx, &domain.User{Email: email}))
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
