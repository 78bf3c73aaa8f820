package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/you/parkease/internal/app"
	"github.com/you/parkease/internal/config"
	"github.com/you/parkease/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger := log.New(os.Getenv("APP_ENV"))
		logger.Fatal().Err(err).Msg("parkease")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return app.Run(ctx, cfg, log.New(cfg.Env))
}
