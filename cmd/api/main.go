package main

import (
	"context"
	"log"

	_ "github.com/dhima/catalog-service/docs" // Import generated docs
	"github.com/dhima/catalog-service/internal/api"
	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/dhima/catalog-service/pkg/config"
	"go.uber.org/zap"
)

// @title Catalog Service API
// @version 1.0
// @description Content store and scheduling service for a training catalog: trainings, trainers, scheduled events, contact messages and site content.
// @description
// @description ## Access
// @description - **Reads** are public.
// @description - **Mutations** require a bearer token issued by `POST /api/auth/login` for a user with the `admin` role.
// @description - An expired token is treated exactly like a missing one.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token: "Bearer <token>"

func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	srv, err := api.NewServer(context.Background(), cfg, logger, clock.RealClock{})
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}
	if err := srv.Serve(); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}
