// Package session keeps the client-side login state: the bearer token, the
// user it belongs to, and a poller that logs out once the token expires.
package session

import (
	"context"

	"github.com/kanban-board/backend/internal/model"
)

// State is what a Store persists between runs.
type State struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

func (s State) Empty() bool {
	return s.Token == ""
}

// Store persists a single session. Load returns an empty State when nothing
// has been saved.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
	Clear(ctx context.Context) error
}
