package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
)

const (
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgServerConfig       = "Server configuration error"
	msgServerError        = "Server error"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Login
// @Description Exchanges a username and password for a session token valid for 2 hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.MessageResponse
// @Failure 401 {object} model.MessageResponse
// @Failure 500 {object} model.MessageResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: msgMissingCredentials})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AuthMeResponse
// @Failure 401 {object} model.AuthErrorResponse
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		writeGateError(c, service.ErrMissingToken)
		return
	}
	c.JSON(http.StatusOK, model.AuthMeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserSummary
// @Failure 401 {object} model.AuthErrorResponse
// @Failure 500 {object} model.MessageResponse
// @Router /api/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: msgServerError})
		return
	}
	c.JSON(http.StatusOK, users)
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: msgMissingCredentials})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, model.MessageResponse{Message: msgInvalidCredentials})
	case errors.Is(err, service.ErrMisconfigured):
		log.Printf("Login rejected: %v", err)
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: msgServerConfig})
	default:
		log.Printf("Login error: %v", err)
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: msgServerError})
	}
}
