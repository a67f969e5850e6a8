package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[map[string]any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data["status"])
}

func TestSetupAndLoginFlow(t *testing.T) {
	ts := newTestServer(t, "")

	authHeader, userID := ts.setupRootUser(t)
	assert.NotEmpty(t, userID)

	// Setup can only run once.
	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "second@example.com",
		"password":     "TestPassword123!",
		"display_name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// The issued token authenticates requests.
	resp = ts.api.Get("/api/v1/users/me", "Authorization: "+authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	var me testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &me))
	assert.Equal(t, userID, me.Data.ID)
	assert.Equal(t, "root@example.com", me.Data.Email)
	assert.True(t, me.Data.IsRoot)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t, "")
	ts.setupRootUser(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "root@example.com",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotNil(t, envelope.Error)
}

func TestRegister_PendingFlow(t *testing.T) {
	ts := newTestServer(t, "")
	adminAuth, _ := ts.setupRootUser(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "alice@example.com",
		"password":     "TestPassword123!",
		"display_name": "Alice",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// Pending accounts cannot sign in yet.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The pending account shows up for the admin.
	resp = ts.api.Get("/api/v1/admin/users/pending", "Authorization: "+adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	var pending testEnvelope[struct {
		Users []UserResponse `json:"users"`
		Total int            `json:"total"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pending))
	require.Equal(t, 1, pending.Data.Total)
	assert.Equal(t, "alice@example.com", pending.Data.Users[0].Email)

	// After approval the account signs in fine.
	ts.registerAndApproveUser(t, adminAuth, "bob@example.com")
}

func TestRefresh_Rotation(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "root@example.com",
		"password":     "TestPassword123!",
		"display_name": "Root",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setup))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.NotEqual(t, setup.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The old refresh token is dead after rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "root@example.com",
		"password":     "TestPassword123!",
		"display_name": "Root",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setup))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": setup.Data.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	ts := newTestServer(t, "")
	adminAuth, _ := ts.setupRootUser(t)
	memberAuth := ts.registerAndApproveUser(t, adminAuth, "member@example.com")

	resp := ts.api.Get("/api/v1/admin/users", "Authorization: "+memberAuth)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/admin/users")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/admin/users", "Authorization: "+adminAuth)
	assert.Equal(t, http.StatusOK, resp.Code)
}
