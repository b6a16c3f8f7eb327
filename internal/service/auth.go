package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kanban-board/backend/internal/db"
	"github.com/kanban-board/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
}

// AuthService issues session tokens for valid credentials. It keeps no
// server-side session state.
type AuthService struct {
	repo   UserRepository
	tokens *TokenManager
}

func NewAuthService(repo UserRepository, tokens *TokenManager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Tokens() *TokenManager {
	return s.tokens
}

// Login never reveals whether the username exists: an unknown user and a
// wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidInput
	}
	if !s.tokens.Configured() {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			// keep the unknown-user path as slow as a real comparison
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  user.Summary(),
	}, nil
}

func (s *AuthService) ParseAccessToken(token string) (*model.AuthUser, error) {
	return s.tokens.Verify(token)
}

// EnsureUser creates username with password unless it already exists.
// The bool reports whether a user was created.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) (*model.User, bool, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, false, ErrInvalidInput
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !db.IsNoRows(err) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user, err = s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, false, ErrConflict
		}
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	return s.repo.ListUsers(ctx)
}

var (
	dummyHashOnce  sync.Once
	dummyHashBytes []byte
)

func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashBytes, _ = bcrypt.GenerateFromPassword([]byte("kanban-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHashBytes
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
