// Package apiclient talks to the Kanban API, attaching the session's bearer
// token to protected requests.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kanban-board/backend/internal/model"
)

// TokenSource supplies the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

type Logouter interface {
	Logout(ctx context.Context)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogoutOnAuthFailure ends the session when a protected request is
// answered with 401.
func WithLogoutOnAuthFailure(l Logouter) Option {
	return func(c *Client) { c.logout = l }
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logout  Logouter
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	var res model.LoginResponse
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*model.AuthMeResponse, error) {
	var res model.AuthMeResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	var res []model.UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	var res []model.Ticket
	if err := c.do(ctx, http.MethodGet, "/api/tickets", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetTicket(ctx context.Context, id int64) (*model.Ticket, error) {
	var res model.Ticket
	if err := c.do(ctx, http.MethodGet, ticketPath(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	var res model.Ticket
	if err := c.do(ctx, http.MethodPost, "/api/tickets", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id int64, req model.TicketRequest) (*model.Ticket, error) {
	var res model.Ticket
	if err := c.do(ctx, http.MethodPut, ticketPath(id), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status string) (*model.Ticket, error) {
	var res model.Ticket
	req := model.TicketStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, ticketPath(id)+"/status", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, ticketPath(id), nil, nil)
}

func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	var res model.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func ticketPath(id int64) string {
	return fmt.Sprintf("/api/tickets/%d", id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("building url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	protected := strings.HasPrefix(path, "/api/")
	if protected && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, errorMessage(raw))
		if apiErr.Kind == KindAuth && protected && c.logout != nil {
			c.logout.Logout(ctx)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
