package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrMisconfigured      = errors.New("auth config invalid")

	// Auth gate rejections, in the order the gate checks them.
	ErrMissingAuthHeader   = errors.New("no authorization header")
	ErrInvalidAuthScheme   = errors.New("invalid authorization scheme")
	ErrMissingToken        = errors.New("no bearer token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidTokenPayload = fmt.Errorf("%w: missing identity claims", ErrInvalidToken)

	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidTicket  = errors.New("invalid ticket")
)
