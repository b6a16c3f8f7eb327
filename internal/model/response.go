package model

type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of login failures and ticket operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthErrorResponse is the body written by the auth gate on rejection.
type AuthErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type AuthMeResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
