package model

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// AuthUser is the identity the auth gate attaches to a request.
type AuthUser struct {
	ID       int64
	Username string
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}
