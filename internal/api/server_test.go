package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/bookflowapp/bookflow-server/internal/auth"
	"github.com/bookflowapp/bookflow-server/internal/catalog"
	"github.com/bookflowapp/bookflow-server/internal/search"
	"github.com/bookflowapp/bookflow-server/internal/service"
	"github.com/bookflowapp/bookflow-server/internal/store"
)

// testEnvelope mirrors the response envelope for unmarshaling in tests.
type testEnvelope[T any] struct {
	V       int            `json:"v"`
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   map[string]any `json:"error"`
}

type testServer struct {
	*Server
	api humatest.TestAPI
}

// newTestServer builds a full server on temp-dir storage. The catalog
// client points at catalogURL when given, or a dead default otherwise.
func newTestServer(t *testing.T, catalogURL string) *testServer {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	catalogOpts := []catalog.Option{}
	if catalogURL != "" {
		catalogOpts = append(catalogOpts, catalog.WithBaseURL(catalogURL))
	}
	catalogClient := catalog.NewClient(logger, catalogOpts...)

	sessionService := service.NewSessionService(st, tokenService, logger)
	services := &Services{
		Auth:    service.NewAuthService(st, tokenService, sessionService, logger),
		Session: sessionService,
		Book:    service.NewBookService(st, idx, logger),
		Catalog: service.NewCatalogService(catalogClient, logger),
		Admin:   service.NewAdminService(st, logger),
	}

	s := NewServer(st, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// setupRootUser runs setup and returns the root's bearer header value.
func (ts *testServer) setupRootUser(t *testing.T) (authHeader, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "root@example.com",
		"password":     "TestPassword123!",
		"display_name": "Root",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return "Bearer " + envelope.Data.AccessToken, envelope.Data.User.ID
}

// registerAndApproveUser creates a member account, approves it, and signs
// it in, returning the bearer header value.
func (ts *testServer) registerAndApproveUser(t *testing.T, adminAuth, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "TestPassword123!",
		"display_name": "Member",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var reg testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reg))

	resp = ts.api.Post("/api/v1/admin/users/"+reg.Data.UserID+"/approve",
		"Authorization: "+adminAuth)
	require.Equal(t, http.StatusOK, resp.Code, "Approve failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var login testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))

	return "Bearer " + login.Data.AccessToken
}
