// Package board arranges tickets into status lanes and applies moves
// optimistically against the API.
package board

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/kanban-board/backend/internal/model"
)

type SortField string

const (
	SortByName    SortField = "name"
	SortByCreated SortField = "created"
)

// ParseSortField accepts "name" or "created"; anything else is an error.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByName, SortByCreated:
		return f, nil
	case "":
		return SortByName, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// View filters and orders the tickets of every lane.
type View struct {
	Query      string
	SortBy     SortField
	Descending bool
}

type Lane struct {
	Status  string
	Tickets []model.Ticket
}

// API is the part of the API client the board needs.
type API interface {
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error)
}

type Board struct {
	mu      sync.Mutex
	api     API
	tickets []model.Ticket
}

func New(api API) *Board {
	return &Board{api: api}
}

func (b *Board) Load(ctx context.Context) error {
	tickets, err := b.api.ListTickets(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.tickets = tickets
	b.mu.Unlock()
	return nil
}

func (b *Board) Tickets() []model.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Ticket(nil), b.tickets...)
}

// Lanes returns one lane per status in board order, filtered and sorted by v.
func (b *Board) Lanes(v View) []Lane {
	tickets := b.Tickets()
	query := strings.ToLower(strings.TrimSpace(v.Query))

	lanes := make([]Lane, 0, len(model.TicketStatuses))
	for _, status := range model.TicketStatuses {
		lane := Lane{Status: status, Tickets: []model.Ticket{}}
		for _, t := range tickets {
			if t.Status == status && matches(t, query) {
				lane.Tickets = append(lane.Tickets, t)
			}
		}
		sortTickets(lane.Tickets, v.SortBy, v.Descending)
		lanes = append(lanes, lane)
	}
	return lanes
}

func matches(t model.Ticket, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

func sortTickets(tickets []model.Ticket, field SortField, desc bool) {
	less := func(a, b model.Ticket) bool {
		switch field {
		case SortByCreated:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		if desc {
			return less(tickets[j], tickets[i])
		}
		return less(tickets[i], tickets[j])
	})
}

// Move puts the ticket in its new lane right away, then asks the API. On
// failure the local change is reverted; either way the board is reloaded.
func (b *Board) Move(ctx context.Context, id int64, status string) error {
	if !model.IsValidStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}

	b.mu.Lock()
	idx := -1
	for i := range b.tickets {
		if b.tickets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return fmt.Errorf("ticket %d is not on the board", id)
	}
	previous := b.tickets[idx].Status
	if previous == status {
		b.mu.Unlock()
		return nil
	}
	b.tickets[idx].Status = status
	b.mu.Unlock()

	_, moveErr := b.api.UpdateTicketStatus(ctx, id, status)
	if moveErr != nil {
		b.mu.Lock()
		for i := range b.tickets {
			if b.tickets[i].ID == id {
				b.tickets[i].Status = previous
			}
		}
		b.mu.Unlock()
	}

	if err := b.Load(ctx); err != nil {
		log.Printf("Failed to reload board: %v", err)
	}
	return moveErr
}
