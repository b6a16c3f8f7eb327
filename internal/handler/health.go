package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanban-board/backend/internal/model"
)

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "Kanban API server is running",
	})
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 3 * time.Second}
}

// Health godoc
// @Summary Health check
// @Description Reports API and database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Failure 500 {object} model.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.db.Ping(ctx); err != nil {
		log.Printf("Database connection error: %v", err)
		c.JSON(http.StatusInternalServerError, model.HealthResponse{
			Status:    "unhealthy",
			Database:  "disconnected",
			Error:     "Database connection failed",
			Timestamp: now,
		})
		return
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: now,
	})
}
