// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"commerce-payments/cmd"
	"commerce-payments/internal/data/repository"
	"commerce-payments/internal/events"
	"commerce-payments/internal/usecase"
	"commerce-payments/internal/wire"
	"commerce-payments/pkg/database"
	"commerce-payments/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Lifecycle event publisher (no-op when no broker is configured)
	publisher := events.NewPublisher(config.Kafka.Broker, config.Kafka.Topic, logger)
	defer publisher.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, publisher, config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background expiration sweeper; the lazy request-time sweep stays
	// authoritative, this keeps idle rows from going stale.
	sweeper := usecase.NewSweeper(repos, config.Payment.SweepInterval, logger)
	go sweeper.Run(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
