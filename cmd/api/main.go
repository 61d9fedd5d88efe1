package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lookalike-audience-service/internal/config"
	"lookalike-audience-service/internal/logging"
	"lookalike-audience-service/internal/server"

	"github.com/rs/zerolog/log"
)

// @title Lookalike Audience Service API
// @version 1.0
// @description Batch creation of Facebook lookalike audiences through the Marketing API.
// @BasePath /
func main() {
	secrets := flag.String("secrets", "", "path to the TOML secrets file")
	flag.Parse()

	// Config
	cfg, err := config.Load(*secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.SecretsFile == "" {
		logger.Warn().Str("path", config.SecretsPath(*secrets)).Msg("secrets file not found, using environment only")
	}
	logger.Debug().Interface("config", cfg.Redact()).Msg("config loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := server.Build(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}
	defer app.Close()

	// Graceful shutdown
	go func() {
		if err := app.Fiber.Listen(cfg.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("fiber stopped")
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("fiber shutdown error")
	}

	logger.Info().Msg("server exiting")
}
