// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"computer-booking/cmd"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/notifier"
	"computer-booking/internal/wire"
	"computer-booking/internal/worker"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/database"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	notify, err := notifier.New(config.Notifier, logger)
	if err != nil {
		logger.Fatal("Failed to create notifier", zap.Error(err))
	}
	// Closed after the server and scheduler stop so queued notifications drain.
	dispatcher := notifier.NewDispatcher(notify, 30*time.Second, logger)
	defer dispatcher.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, dispatcher, clock.Real(), config, logger)

	if config.Admin.Username != "" && config.Admin.Password != "" {
		if err := app.Service.Auth.EnsureAdmin(ctx, config.Admin.Username, config.Admin.Password); err != nil {
			logger.Fatal("Failed to seed administrator", zap.Error(err))
		}
	}

	scheduler, err := worker.NewScheduler(config.Reconcile.Schedule, app.Service.Booking, logger)
	if err != nil {
		logger.Fatal("Failed to start reconciler", zap.Error(err))
	}
	scheduler.Start()

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)

	logger.Info("Application stopped")
}
