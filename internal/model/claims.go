package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed payload of a session token:
// {id, username, iat, exp, jti}.
type SessionClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
