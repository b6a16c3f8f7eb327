package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
)

const (
	authUserKey     = "auth_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// TokenVerifier turns a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*model.AuthUser, error)
}

// AuthMiddleware rejects requests without a valid bearer token. Checks run in
// a fixed order (header, scheme, token, secret, signature, expiry, payload)
// and the first failure decides the response.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			writeGateError(c, err)
			return
		}

		user, err := verifier.Verify(token)
		if err != nil {
			writeGateError(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", service.ErrMissingAuthHeader
	}

	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", service.ErrInvalidAuthScheme
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", service.ErrMissingToken
	}
	return token, nil
}

func writeGateError(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	title := "Authentication Error"
	var message string

	switch {
	case errors.Is(err, service.ErrMissingAuthHeader):
		message = "No authorization header provided"
	case errors.Is(err, service.ErrInvalidAuthScheme):
		message = "Invalid authorization scheme. Use Bearer"
	case errors.Is(err, service.ErrMissingToken):
		message = "No token provided in authorization header"
	case errors.Is(err, service.ErrMisconfigured):
		log.Printf("Auth gate misconfigured: %v", err)
		status, title, message = http.StatusInternalServerError, "Server Error", msgServerConfig
	case errors.Is(err, service.ErrTokenExpired):
		message = "Token has expired"
	case errors.Is(err, service.ErrInvalidTokenPayload):
		message = "Invalid token payload"
	case errors.Is(err, service.ErrInvalidToken):
		message = "Invalid token"
	default:
		log.Printf("Auth gate error: %v", err)
		status, title, message = http.StatusInternalServerError, "Server Error", "An unexpected error occurred"
	}

	c.AbortWithStatusJSON(status, model.AuthErrorResponse{
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RequestIDMiddleware echoes X-Request-ID, generating one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
