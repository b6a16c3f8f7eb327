package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "missing", header: "", wantErr: service.ErrMissingAuthHeader},
		{name: "basic-scheme", header: "Basic abc123", wantErr: service.ErrInvalidAuthScheme},
		{name: "token-without-scheme", header: "abc123", wantErr: service.ErrInvalidAuthScheme},
		{name: "scheme-only", header: "Bearer", wantErr: service.ErrMissingToken},
		{name: "scheme-and-space", header: "Bearer   ", wantErr: service.ErrMissingToken},
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase-scheme", header: "bearer abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	env := newTestEnv(t, testSecret)

	expired, err := env.tokens.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).
		Issue(&model.User{ID: 1, Username: "JollyGuru"})
	require.NoError(t, err)

	otherEnv := newTestEnv(t, "another-secret")
	foreign, err := otherEnv.tokens.Issue(&model.User{ID: 1, Username: "JollyGuru"})
	require.NoError(t, err)

	noIdentity, err := jwt.NewWithClaims(jwt.SigningMethodHS256, model.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  map[string]string
		message string
	}{
		{name: "no-header", header: nil, message: "No authorization header provided"},
		{name: "wrong-scheme", header: map[string]string{"Authorization": "Basic abc123"}, message: "Invalid authorization scheme. Use Bearer"},
		{name: "empty-token", header: map[string]string{"Authorization": "Bearer "}, message: "No token provided in authorization header"},
		{name: "garbage", header: map[string]string{"Authorization": "Bearer abc123"}, message: "Invalid token"},
		{name: "foreign-secret", header: map[string]string{"Authorization": "Bearer " + foreign}, message: "Invalid token"},
		{name: "expired", header: map[string]string{"Authorization": "Bearer " + expired}, message: "Token has expired"},
		{name: "no-identity", header: map[string]string{"Authorization": "Bearer " + noIdentity}, message: "Invalid token payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/tickets", nil, tt.header)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			body := decode[model.AuthErrorResponse](t, w)
			assert.Equal(t, "Authentication Error", body.Error)
			assert.Equal(t, tt.message, body.Message)
			_, err := time.Parse(time.RFC3339, body.Timestamp)
			assert.NoError(t, err)
		})
	}
}

func TestAuthMiddleware_MisconfiguredSecret(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/api/tickets", nil, map[string]string{"Authorization": "Bearer abc.def.ghi"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode[model.AuthErrorResponse](t, w)
	assert.Equal(t, "Server Error", body.Error)
	assert.Equal(t, "Server configuration error", body.Message)
}

func TestAuthMiddleware_HeaderCheckedBeforeSecret(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/api/tickets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_AttachesIdentity(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodGet, "/api/me", nil, env.bearer(t))
	require.Equal(t, http.StatusOK, w.Code)

	me := decode[model.AuthMeResponse](t, w)
	assert.Equal(t, model.AuthMeResponse{ID: 1, Username: "JollyGuru"}, me)
}

func TestAuthMiddleware_OptionsPassesThrough(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodOptions, "/api/tickets", nil, map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodGet, "/ping", nil, nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = env.do(http.MethodGet, "/ping", nil, map[string]string{requestIDHeader: "req-1"})
	assert.Equal(t, "req-1", w.Header().Get(requestIDHeader))
}
