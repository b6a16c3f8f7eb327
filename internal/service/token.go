package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kanban-board/backend/internal/config"
	"github.com/kanban-board/backend/internal/model"
)

const DefaultTokenTTL = 2 * time.Hour

// TokenManager signs and verifies session tokens. It is immutable after
// construction and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewTokenManager accepts an empty secret: issuing and verifying then fail
// with ErrMisconfigured so the gate can answer 500 instead of the process
// refusing to serve public routes.
func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	ttl := DefaultTokenTTL
	if strings.TrimSpace(cfg.JWTTTL) != "" {
		parsed, err := time.ParseDuration(cfg.JWTTTL)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: invalid JWT_TTL", ErrMisconfigured)
		}
		ttl = parsed
	}

	var leeway time.Duration
	if strings.TrimSpace(cfg.JWTLeeway) != "" {
		parsed, err := time.ParseDuration(cfg.JWTLeeway)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%w: invalid JWT_LEEWAY", ErrMisconfigured)
		}
		leeway = parsed
	}

	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		leeway: leeway,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of m that reads the current time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) Configured() bool {
	return len(m.secret) > 0
}

// Issue mints a token for user with exp = iat + TTL.
func (m *TokenManager) Issue(user *model.User) (string, error) {
	if !m.Configured() {
		return "", fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	issuedAt := m.now().Truncate(time.Second)
	claims := model.SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, expiry and identity claims, in that order.
func (m *TokenManager) Verify(tokenStr string) (*model.AuthUser, error) {
	if !m.Configured() {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	claims := &model.SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.UserID == 0 || strings.TrimSpace(claims.Username) == "" {
		return nil, ErrInvalidTokenPayload
	}

	return &model.AuthUser{
		ID:       claims.UserID,
		Username: claims.Username,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}
}
