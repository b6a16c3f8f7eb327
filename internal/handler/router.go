package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kanban-board/backend/internal/service"
)

type RouterDeps struct {
	Auth           *service.AuthService
	Tickets        *service.TicketService
	DB             Pinger
	AllowedOrigins []string
}

// NewRouter wires public routes and the /api group behind the auth gate.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware(), CORSMiddleware(deps.AllowedOrigins, true))

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/openapi.json", OpenAPIDoc)
	r.GET("/health", NewHealthHandler(deps.DB).Health)

	authHandler := NewAuthHandler(deps.Auth)
	r.POST("/auth/login", authHandler.Login)

	api := r.Group("/api", AuthMiddleware(deps.Auth.Tokens()))
	api.GET("/me", authHandler.Me)
	api.GET("/users", authHandler.ListUsers)

	ticketHandler := NewTicketHandler(deps.Tickets)
	api.GET("/tickets", ticketHandler.ListTickets)
	api.POST("/tickets", ticketHandler.CreateTicket)
	api.GET("/tickets/:id", ticketHandler.GetTicket)
	api.PUT("/tickets/:id", ticketHandler.UpdateTicket)
	api.PATCH("/tickets/:id/status", ticketHandler.UpdateTicketStatus)
	api.DELETE("/tickets/:id", ticketHandler.DeleteTicket)

	return r
}
