package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

// RateBoard is one rendered batch: the provider timestamp plus a
// display record per currency, sorted by code.
type RateBoard struct {
	AsOf    int64
	Records []domain.DisplayRecord
	// Skipped lists currency codes dropped from the batch because their
	// quote could not be processed (bad rate, zero previous rate).
	Skipped []string
}

// RatesReaderSvc builds display-ready rate boards from live quotes.
type RatesReaderSvc interface {
	// GetRateBoard fetches live quotes for the basket, compares them
	// against the rate store and returns display records. Quote source
	// failure is terminal; single-currency faults are skipped.
	GetRateBoard(ctx context.Context, basket []string, spreadPct decimal.Decimal) (*RateBoard, error)
}

// CurrencyListerSvc resolves currency codes to human readable names.
type CurrencyListerSvc interface {
	// ListCurrencies returns the definition for each code in the basket,
	// de-duplicated, preserving basket order. Unknown codes are reported
	// with an empty name.
	ListCurrencies(ctx context.Context, basket []string) ([]domain.CurrencyName, error)
}

// RatesSvcFacade combines the rate-board and currency-list interfaces.
type RatesSvcFacade interface {
	RatesReaderSvc
	CurrencyListerSvc
}
