package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/Rohinijk/travel-glide-tickets-online/docs"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/app"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/config"
)

//go:generate swag init -d ../../ -g cmd/travelglide/main.go -o ../../docs --parseInternal

// @title TravelGlide Booking API
// @version 1.0
// @description Bus search, booking sessions and reservations for TravelGlide.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
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
