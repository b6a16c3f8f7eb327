package handler

import (
	"net/http"
	"testing"

	"github.com/kanban-board/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodPost, "/auth/login", model.LoginRequest{Username: "JollyGuru", Password: "password"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[model.LoginResponse](t, w)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "JollyGuru", res.User.Username)
	assert.Equal(t, int64(1), res.User.ID)

	user, err := env.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "JollyGuru", user.Username)
}

func TestLogin_TokenOpensProtectedRoutes(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodPost, "/auth/login", model.LoginRequest{Username: "JollyGuru", Password: "password"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[model.LoginResponse](t, w)

	w = env.do(http.MethodGet, "/api/tickets", nil, map[string]string{"Authorization": "Bearer " + res.Token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_RejectionsDoNotLeakUsernames(t *testing.T) {
	env := newTestEnv(t, testSecret)

	unknown := env.do(http.MethodPost, "/auth/login", model.LoginRequest{Username: "Nobody", Password: "password"}, nil)
	wrong := env.do(http.MethodPost, "/auth/login", model.LoginRequest{Username: "JollyGuru", Password: "nope"}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, "Invalid credentials", decode[model.MessageResponse](t, wrong).Message)
}

func TestLogin_BadRequests(t *testing.T) {
	env := newTestEnv(t, testSecret)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing-password", body: map[string]string{"username": "JollyGuru"}},
		{name: "missing-username", body: map[string]string{"password": "password"}},
		{name: "empty-object", body: "{}"},
		{name: "malformed-json", body: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/auth/login", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Username and password are required", decode[model.MessageResponse](t, w).Message)
		})
	}
}

func TestLogin_Misconfigured(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodPost, "/auth/login", model.LoginRequest{Username: "JollyGuru", Password: "password"}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server configuration error", decode[model.MessageResponse](t, w).Message)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodGet, "/api/users", nil, env.bearer(t))
	require.Equal(t, http.StatusOK, w.Code)

	users := decode[[]model.UserSummary](t, w)
	assert.Equal(t, []model.UserSummary{{ID: 1, Username: "JollyGuru"}}, users)
	assert.NotContains(t, w.Body.String(), "password")
}
