package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-dashboard/internal/app"
	"github.com/Nazarious-ucu/weather-dashboard/internal/config"
	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/pkg/logger"
)

// @title Weather Dashboard API
// @version 1.0
// @description Favorite cities weather and scheduled email digests
// @host localhost:3000
// @BasePath /api
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.Logs.AppPath, "weather-dashboard")
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	metr := metrics.NewMetrics("weather_dashboard")

	application := app.New(*cfg, l, metr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application stopped with error")
	}
}
