package ports

import (
	"context"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

// Note: Context is included on every operation for cancellation/timeouts.

// RateRepository defines the persistence operations for cached rates,
// keyed by 3-letter currency code. Writes fully replace the rate and
// save time for one key; last writer wins.
type RateRepository interface {
	// GetCachedRate returns the last saved rate for a currency code.
	// Unknown codes return apperrors.ErrNotFound; callers substitute the
	// sentinel.
	GetCachedRate(ctx context.Context, code string) (domain.CachedRate, error)

	// PutCachedRate inserts or replaces the cached rate for one code.
	PutCachedRate(ctx context.Context, rate domain.CachedRate) error

	// SaveCachedRates stores a whole batch, used for initial population.
	// No transactional guarantee is required across the batch.
	SaveCachedRates(ctx context.Context, rates []domain.CachedRate) error
}
