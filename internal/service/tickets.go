package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kanban-board/backend/internal/db"
	"github.com/kanban-board/backend/internal/model"
)

type TicketRepository interface {
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*model.Ticket, error)
	CreateTicket(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
}

type TicketService struct {
	repo TicketRepository
}

func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{repo: repo}
}

func (s *TicketService) List(ctx context.Context) ([]model.Ticket, error) {
	return s.repo.ListTickets(ctx)
}

func (s *TicketService) Get(ctx context.Context, id int64) (*model.Ticket, error) {
	t, err := s.repo.GetTicket(ctx, id)
	return t, notFound(err)
}

func (s *TicketService) Create(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error) {
	req, err := normalizeTicket(req)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateTicket(ctx, req, createdByID)
}

func (s *TicketService) Update(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error) {
	req, err := normalizeTicket(req)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.UpdateTicket(ctx, id, req)
	return t, notFound(err)
}

// Move changes only the lane of a ticket.
func (s *TicketService) Move(ctx context.Context, id int64, status string) (*model.Ticket, error) {
	if !model.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTicket, status)
	}
	t, err := s.repo.UpdateTicketStatus(ctx, id, status)
	return t, notFound(err)
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.DeleteTicket(ctx, id))
}

func normalizeTicket(req model.TicketRequest) (model.TicketRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		return req, fmt.Errorf("%w: name is required", ErrInvalidTicket)
	}
	if req.Status == "" {
		req.Status = model.StatusTodo
	}
	if !model.IsValidStatus(req.Status) {
		return req, fmt.Errorf("%w: unknown status %q", ErrInvalidTicket, req.Status)
	}
	return req, nil
}

func notFound(err error) error {
	if err != nil && db.IsNoRows(err) {
		return ErrTicketNotFound
	}
	return err
}
