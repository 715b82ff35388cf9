package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"field-booking/cmd"
	"field-booking/internal/data/repository"
	"field-booking/internal/notify"
	"field-booking/internal/usecase"
	"field-booking/internal/wire"
	"field-booking/pkg/database"
	"field-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	hub := notify.NewHub()

	app := wire.Wiring(repos, config, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := usecase.NewSweeper(repos, hub, usecase.NewSystemClock(), config.Hold.SweepInterval(), logger)
	go sweeper.Run(ctx)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
