package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tribuna/internal/config"
	"tribuna/internal/consumers"
	"tribuna/internal/logger"
)

func main() {
	cfg := config.Load()
	cfg.NATS.ClientID = getEnv("NATS_CLIENT_ID", "tribuna-consumers")
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	service, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := service.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down consumers...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := service.Shutdown(ctx); err != nil {
		log.Error("Error during shutdown", "error", err)
	}

	log.Info("Consumers stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
