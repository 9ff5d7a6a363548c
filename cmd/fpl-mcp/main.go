package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fpl-mcp/internal/app"
	"github.com/riskibarqy/fpl-mcp/internal/config"
	"github.com/riskibarqy/fpl-mcp/internal/observability"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// stdout belongs to the stdio transport
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fpl-mcp stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		logger.Warn("graceful shutdown incomplete", "error", err)
	}
	logger.Info("fpl-mcp stopped")
	return runErr
}
