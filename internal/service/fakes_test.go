package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kanban-board/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User
	nextID  int64
	lookups int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUserRepo) addUser(username, password string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, _ := f.CreateUser(context.Background(), username, string(hash))
	return u
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	u, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &model.User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.nextID++
	f.users[username] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]model.UserSummary, 0, len(f.users))
	for _, u := range f.users {
		list = append(list, u.Summary())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[int64]model.Ticket
	nextID  int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]model.Ticket{}, nextID: 1}
}

func (f *fakeTicketRepo) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]model.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeTicketRepo) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTicketRepo) CreateTicket(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := model.Ticket{
		ID:          f.nextID,
		Name:        req.Name,
		Status:      req.Status,
		Description: req.Description,
		CreatedByID: createdByID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.nextID++
	f.tickets[t.ID] = t
	return &t, nil
}

func (f *fakeTicketRepo) UpdateTicket(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t.Name, t.Status, t.Description = req.Name, req.Status, req.Description
	f.tickets[id] = t
	return &t, nil
}

func (f *fakeTicketRepo) UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t.Status = status
	f.tickets[id] = t
	return &t, nil
}

func (f *fakeTicketRepo) DeleteTicket(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) CountTickets(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets), nil
}
