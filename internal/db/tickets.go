package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kanban-board/backend/internal/model"
)

const ticketSelect = `
	SELECT t.id, t.name, t.status, t.description, t.created_by_id,
		u.id, u.username, t.created_at, t.updated_at
	FROM tickets t
	LEFT JOIN users u ON u.id = t.created_by_id
`

func (db *Postgres) EnsureTicketSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS tickets (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS tickets_status_idx ON tickets(status)`,
		`CREATE INDEX IF NOT EXISTS tickets_created_by_idx ON tickets(created_by_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	rows, err := db.Pool.Query(ctx, ticketSelect+` ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (db *Postgres) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	return scanTicket(db.Pool.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
}

func (db *Postgres) CreateTicket(ctx context.Context, req model.TicketRequest, createdByID int64) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (name, status, description, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	var id int64
	if err := db.Pool.QueryRow(ctx, query, req.Name, req.Status, req.Description, createdByID).Scan(&id); err != nil {
		return nil, err
	}
	return db.GetTicket(ctx, id)
}

// UpdateTicket returns pgx.ErrNoRows when the ticket does not exist.
func (db *Postgres) UpdateTicket(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET name = $1, status = $2, description = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := db.Pool.Exec(ctx, query, req.Name, req.Status, req.Description, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return db.GetTicket(ctx, id)
}

func (db *Postgres) UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error) {
	tag, err := db.Pool.Exec(ctx, `UPDATE tickets SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return db.GetTicket(ctx, id)
}

func (db *Postgres) DeleteTicket(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) CountTickets(ctx context.Context) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var (
		t         model.Ticket
		creatorID *int64
		creator   *string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Status,
		&t.Description,
		&t.CreatedByID,
		&creatorID,
		&creator,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if creatorID != nil && creator != nil {
		t.CreatedBy = &model.UserSummary{ID: *creatorID, Username: *creator}
	}
	return &t, nil
}
