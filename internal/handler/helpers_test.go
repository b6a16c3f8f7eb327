package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/kanban-board/backend/internal/config"
	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (m *memUsers) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &model.User{ID: int64(len(m.users) + 1), Username: username, PasswordHash: passwordHash}
	m.users[username] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []model.UserSummary{}
	for _, u := range m.users {
		list = append(list, u.Summary())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

type memTickets struct {
	mu      sync.Mutex
	tickets map[int64]model.Ticket
	next    int64
}

func (m *memTickets) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []model.Ticket{}
	for _, t := range m.tickets {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memTickets) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (m *memTickets) CreateTicket(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	t := model.Ticket{ID: m.next, Name: req.Name, Status: req.Status, Description: req.Description, CreatedByID: createdByID, CreatedAt: time.Now()}
	m.tickets[t.ID] = t
	return &t, nil
}

func (m *memTickets) UpdateTicket(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t.Name, t.Status, t.Description = req.Name, req.Status, req.Description
	m.tickets[id] = t
	return &t, nil
}

func (m *memTickets) UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t.Status = status
	m.tickets[id] = t
	return &t, nil
}

func (m *memTickets) DeleteTicket(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tickets, id)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type testEnv struct {
	router *gin.Engine
	tokens *service.TokenManager
	users  *memUsers
}

func newTestEnv(t *testing.T, secret string) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &memUsers{users: map[string]*model.User{
		"JollyGuru": {ID: 1, Username: "JollyGuru", PasswordHash: string(hash)},
	}}
	tokens, err := service.NewTokenManager(config.AuthConfig{JWTSecret: secret, JWTTTL: "2h"})
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Auth:           service.NewAuthService(users, tokens),
		Tickets:        service.NewTicketService(&memTickets{tickets: map[int64]model.Ticket{}}),
		DB:             fakePinger{},
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &testEnv{router: router, tokens: tokens, users: users}
}

func (e *testEnv) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) bearer(t *testing.T) map[string]string {
	t.Helper()
	tok, err := e.tokens.Issue(&model.User{ID: 1, Username: "JollyGuru"})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
