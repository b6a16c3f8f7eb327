package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingAndRoot(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodGet, "/ping", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode[model.PingResponse](t, w).Message)

	w = env.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[model.RootResponse](t, w).Status)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		pinger   Pinger
		code     int
		status   string
		database string
	}{
		{name: "connected", pinger: fakePinger{}, code: http.StatusOK, status: "healthy", database: "connected"},
		{name: "down", pinger: fakePinger{err: errors.New("dial tcp: refused")}, code: http.StatusInternalServerError, status: "unhealthy", database: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testSecret)
			env.router = NewRouter(RouterDeps{
				Auth:    service.NewAuthService(env.users, env.tokens),
				Tickets: service.NewTicketService(&memTickets{tickets: map[int64]model.Ticket{}}),
				DB:      tt.pinger,
			})

			w := env.do(http.MethodGet, "/health", nil, nil)
			require.Equal(t, tt.code, w.Code)

			res := decode[model.HealthResponse](t, w)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.database, res.Database)
			assert.NotEmpty(t, res.Timestamp)
		})
	}
}

func TestOpenAPIDoc(t *testing.T) {
	env := newTestEnv(t, testSecret)

	w := env.do(http.MethodGet, "/openapi.json", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/auth/login")
}
