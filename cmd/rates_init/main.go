package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mikeoc61/currency-monitor/internal/adapters/currencylayer"
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/core/services"
	"github.com/mikeoc61/currency-monitor/internal/platform/config"
	"github.com/mikeoc61/currency-monitor/internal/repositories/database/pgsql"
	"github.com/mikeoc61/currency-monitor/pkg/database"
)

// rates_init seeds the cached_rates table from a single live fetch so
// the server has a prior rate for every currency in the basket on its
// very first request. Safe to re-run; existing rows are overwritten.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(pool)

	source := currencylayer.NewClient(cfg.SourceAccessKey, currencylayer.WithBaseURL(cfg.SourceBaseURL))
	store := pgsql.NewPgxRateRepository(pool)

	table, err := source.FetchLive(ctx, cfg.Basket)
	if err != nil {
		logger.Error("Failed to fetch live quotes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rates := make([]domain.CachedRate, 0, len(table.Quotes))
	for _, pair := range table.Pairs() {
		quote, _ := table.At(pair)
		code := domain.CodeFromPair(pair)
		rate, err := services.NormalizeRate(quote.Rate, cfg.Precision)
		if err != nil {
			logger.Warn("Skipping unparsable quote",
				slog.String("pair", pair),
				slog.String("raw", quote.Rate),
				slog.String("error", err.Error()))
			continue
		}
		rates = append(rates, domain.CachedRate{Code: code, Rate: rate, SavedAt: table.AsOf})
	}

	if len(rates) == 0 {
		logger.Error("No usable quotes returned; nothing to seed")
		os.Exit(1)
	}

	if err := store.SaveCachedRates(ctx, rates); err != nil {
		logger.Error("Failed to seed cached rates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Seeded cached rates",
		slog.Int("count", len(rates)),
		slog.Int64("as_of", table.AsOf))
}
