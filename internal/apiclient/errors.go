package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindRequest ErrorKind = iota
	KindAuth
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	default:
		return "request"
	}
}

// APIError is a response the server answered with status >= 400.
type APIError struct {
	StatusCode int
	Message    string
	Kind       ErrorKind
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func newAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	kind := KindRequest
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuth
	case status >= 500:
		kind = KindServer
	}
	return &APIError{StatusCode: status, Message: message, Kind: kind}
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
