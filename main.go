// @title Kanban API
// @version 1.0
// @description Kanban board API with JWT bearer authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kanban-board/backend/internal/config"
	"github.com/kanban-board/backend/internal/db"
	"github.com/kanban-board/backend/internal/handler"
	"github.com/kanban-board/backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		cancel()
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	pg := db.NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	tokens, err := service.NewTokenManager(cfg.Auth)
	if err != nil {
		cancel()
		log.Fatalf("Invalid auth configuration: %v", err)
	}
	if !tokens.Configured() {
		log.Printf("WARNING: JWT_SECRET is not set; login and protected routes will answer 500")
	}

	authService := service.NewAuthService(pg, tokens)
	ticketService := service.NewTicketService(pg)

	if cfg.Seed.OnStart {
		if err := service.NewSeeder(authService, pg).Seed(ctx, service.DefaultSeedUsers, service.DefaultSeedTickets); err != nil {
			cancel()
			log.Fatalf("Failed to seed database: %v", err)
		}
	}
	cancel()

	router := handler.NewRouter(handler.RouterDeps{
		Auth:           authService,
		Tickets:        ticketService,
		DB:             pg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	log.Printf("Server listening on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
