package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikeoc61/currency-monitor/internal/adapters/currencylayer"
	"github.com/mikeoc61/currency-monitor/internal/core/services"
	"github.com/mikeoc61/currency-monitor/internal/platform/config"
)

// The console monitor polls the quote source, prints colored change
// detail when the quote set moves and sleeps adaptively to stay aligned
// with the provider's update cadence. It keeps all state in process
// memory and never touches the rate store.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SourceAccessKey == "" {
		logger.Error("CL_KEY environment variable not set")
		os.Exit(1)
	}

	// SIGINT/SIGTERM stop the loop before its next fetch; no further
	// network calls happen once the context is done.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := currencylayer.NewClient(cfg.SourceAccessKey, currencylayer.WithBaseURL(cfg.SourceBaseURL))
	monitor := services.NewMonitorService(source, cfg.Basket, cfg.PollInterval, cfg.Precision, os.Stdout, cfg.MonitorColor, logger)

	if err := monitor.Run(ctx); err != nil {
		logger.Error("Monitor stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
