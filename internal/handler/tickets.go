package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kanban-board/backend/internal/model"
	"github.com/kanban-board/backend/internal/service"
)

type TicketHandler struct {
	svc *service.TicketService
}

func NewTicketHandler(svc *service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// ListTickets godoc
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Ticket
// @Failure 401 {object} model.AuthErrorResponse
// @Failure 500 {object} model.MessageResponse
// @Router /api/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicket godoc
// @Summary Get ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	ticket, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// CreateTicket godoc
// @Summary Create ticket
// @Description The ticket is attributed to the authenticated user.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.TicketRequest true "Ticket"
// @Success 201 {object} model.Ticket
// @Failure 400 {object} model.MessageResponse
// @Failure 401 {object} model.AuthErrorResponse
// @Router /api/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.MessageResponse{Message: "User must be logged in to create a ticket"})
		return
	}

	var req model.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: "Invalid ticket payload"})
		return
	}

	ticket, err := h.svc.Create(c.Request.Context(), req, user.ID)
	if err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// UpdateTicket godoc
// @Summary Update ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body model.TicketRequest true "Ticket"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/tickets/{id} [put]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req model.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: "Invalid ticket payload"})
		return
	}

	ticket, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// UpdateTicketStatus godoc
// @Summary Move ticket to another lane
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Param request body model.TicketStatusRequest true "New status"
// @Success 200 {object} model.Ticket
// @Failure 400 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/tickets/{id}/status [patch]
func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req model.TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: "Invalid status payload"})
		return
	}

	ticket, err := h.svc.Move(c.Request.Context(), id, req.Status)
	if err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// DeleteTicket godoc
// @Summary Delete ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Ticket deleted"})
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: "Invalid ticket id"})
		return 0, false
	}
	return id, true
}

func writeTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, model.MessageResponse{Message: "Ticket not found"})
	case errors.Is(err, service.ErrInvalidTicket):
		c.JSON(http.StatusBadRequest, model.MessageResponse{Message: err.Error()})
	default:
		log.Printf("Ticket request failed: %v", err)
		c.JSON(http.StatusInternalServerError, model.MessageResponse{Message: msgServerError})
	}
}
