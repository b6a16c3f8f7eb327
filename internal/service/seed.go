package service

import (
	"context"
	"fmt"
	"log"

	"github.com/kanban-board/backend/internal/model"
)

type SeedUser struct {
	Username string
	Password string
}

var DefaultSeedUsers = []SeedUser{
	{Username: "JollyGuru", Password: "password"},
	{Username: "SunnyScribe", Password: "password"},
	{Username: "RadiantComet", Password: "password"},
}

var DefaultSeedTickets = []model.TicketRequest{
	{Name: "Design landing page", Status: model.StatusInProgress, Description: "Create wireframes and mockups for the landing page."},
	{Name: "Set up project repository", Status: model.StatusDone, Description: "Create a new repository on GitHub and initialize it with a README file."},
	{Name: "Implement authentication", Status: model.StatusTodo, Description: "Set up user authentication using JWT tokens."},
	{Name: "Test the API", Status: model.StatusTodo, Description: "Test the API using Insomnia."},
	{Name: "Deploy to production", Status: model.StatusTodo, Description: "Deploy the application to Render."},
}

type TicketCounter interface {
	CountTickets(ctx context.Context) (int, error)
	CreateTicket(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error)
}

// Seeder fills an empty database with demo users and tickets. Running it
// twice does not duplicate anything.
type Seeder struct {
	auth    *AuthService
	tickets TicketCounter
}

func NewSeeder(auth *AuthService, tickets TicketCounter) *Seeder {
	return &Seeder{auth: auth, tickets: tickets}
}

func (s *Seeder) Seed(ctx context.Context, users []SeedUser, tickets []model.TicketRequest) error {
	if len(users) == 0 {
		return fmt.Errorf("%w: no seed users", ErrInvalidInput)
	}

	ids := make([]int64, 0, len(users))
	created := 0
	for _, u := range users {
		user, isNew, err := s.auth.EnsureUser(ctx, u.Username, u.Password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if isNew {
			created++
		}
		ids = append(ids, user.ID)
	}
	log.Printf("Seeded users (created=%d, existing=%d)", created, len(users)-created)

	count, err := s.tickets.CountTickets(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Skipping ticket seed, %d tickets already present", count)
		return nil
	}

	for i, t := range tickets {
		if _, err := s.tickets.CreateTicket(ctx, t, ids[i%len(ids)]); err != nil {
			return fmt.Errorf("seed ticket %q: %w", t.Name, err)
		}
	}
	log.Printf("Seeded %d tickets", len(tickets))
	return nil
}
