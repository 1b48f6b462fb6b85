package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/core/ports"
)

// DefaultStalenessThreshold is how much older than the latest quote a
// saved rate may be before it is rewritten.
const DefaultStalenessThreshold = 24 * time.Hour

// StalenessService decides, per currency, whether the stored rate is
// stale relative to the quote batch timestamp and refreshes it when it
// is. It is the only component that mutates the rate store during a
// rendering cycle.
type StalenessService struct {
	store     ports.RateRepository
	threshold time.Duration
	logger    *slog.Logger
}

// NewStalenessService creates a new StalenessService. A non-positive
// threshold falls back to DefaultStalenessThreshold.
func NewStalenessService(store ports.RateRepository, threshold time.Duration, logger *slog.Logger) *StalenessService {
	if threshold <= 0 {
		threshold = DefaultStalenessThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StalenessService{store: store, threshold: threshold, logger: logger}
}

// RefreshIfStale writes {code, current, batchAsOf} to the store when the
// saved value is strictly older than the threshold, and reports whether
// an update was issued. Each currency is evaluated independently; a
// failed write is logged and dropped, since the entry will still look
// stale on the next cycle and be retried then.
func (s *StalenessService) RefreshIfStale(ctx context.Context, code string, current decimal.Decimal, batchAsOf int64, cached domain.CachedRate) bool {
	age := batchAsOf - cached.SavedAt
	if age <= int64(s.threshold.Seconds()) {
		return false
	}

	err := s.store.PutCachedRate(ctx, domain.CachedRate{
		Code:    code,
		Rate:    current,
		SavedAt: batchAsOf,
	})
	if err != nil {
		s.logger.Warn("Failed to refresh stale cached rate",
			slog.String("code", code),
			slog.String("error", err.Error()))
		return false
	}

	s.logger.Debug("Refreshed stale cached rate",
		slog.String("code", code),
		slog.Int64("age_seconds", age))
	return true
}
