package ports

import (
	"context"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

// QuoteSource fetches raw rate tables from the remote rate provider.
type QuoteSource interface {
	// FetchLive returns the latest quote table for the given currency
	// codes, or for every supported currency when codes is empty. A
	// provider-side failure surfaces as apperrors.ErrSourceUnavailable
	// and is terminal for the cycle.
	FetchLive(ctx context.Context, codes []string) (domain.QuoteTable, error)

	// FetchList returns the provider's code -> currency name listing.
	FetchList(ctx context.Context) (map[string]string, error)
}
