package models

import (
	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

// CachedRate is the database row shape of a stored prior rate.
// Note: Rate maps onto a NUMERIC column so the value keeps its decimal
// text exactly as written.
type CachedRate struct {
	Code    string          `json:"code"`    // Primary Key, ISO 4217 code
	Rate    decimal.Decimal `json:"rate"`    // Precise decimal type
	SavedAt int64           `json:"savedAt"` // Unix seconds of the quote batch that wrote the row
}

// ToDomain converts the row to its domain representation.
func (m CachedRate) ToDomain() domain.CachedRate {
	return domain.CachedRate{Code: m.Code, Rate: m.Rate, SavedAt: m.SavedAt}
}

// FromDomain converts a domain rate to its row representation.
func FromDomain(rate domain.CachedRate) CachedRate {
	return CachedRate{Code: rate.Code, Rate: rate.Rate, SavedAt: rate.SavedAt}
}
