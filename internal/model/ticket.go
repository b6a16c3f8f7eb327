package model

import "time"

// Board lanes, in display order.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

var TicketStatuses = []string{StatusTodo, StatusInProgress, StatusDone}

func IsValidStatus(status string) bool {
	for _, s := range TicketStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Ticket struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	CreatedByID int64        `json:"createdById"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TicketRequest is the create/update payload.
type TicketRequest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type TicketStatusRequest struct {
	Status string `json:"status"`
}
