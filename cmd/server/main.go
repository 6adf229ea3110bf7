// Command server runs the ganfan meal journal API.
//
// Configuration comes from the environment (and an optional .env file); see
// internal/config for the variables and their defaults.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/ganfan/internal/config"
	"github.com/sakif/ganfan/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if cfg.GeneratedSecret {
		logger.Warn("JWT_SECRET not set, using a random secret: sessions will not survive a restart")
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
