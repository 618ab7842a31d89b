package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/brunorochagarcia/reservademesa/docs"
	"github.com/brunorochagarcia/reservademesa/internal/app"
	"github.com/brunorochagarcia/reservademesa/internal/config"
)

// @title Reservademesa API
// @version 1.0
// @description Seat reservation demo: a fixed seat map, per-day bookings, and a per-client edit-session API.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
