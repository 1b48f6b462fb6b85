package domain

import "github.com/shopspring/decimal"

// CachedRate is the last rate observed for one currency, owned by the
// rate store. A newly tracked currency starts at the zero-rate sentinel.
type CachedRate struct {
	Code    string          `json:"code"` // 3-letter currency code
	Rate    decimal.Decimal `json:"rate"`
	SavedAt int64           `json:"savedAt"` // unix seconds
}

// SentinelRate returns the "never observed" placeholder for a currency.
func SentinelRate(code string) CachedRate {
	return CachedRate{Code: code, Rate: decimal.Zero}
}

// IsSentinel reports whether the cached rate is the "never observed"
// placeholder. A sentinel must never be used as a division denominator.
func (r CachedRate) IsSentinel() bool {
	return r.Rate.IsZero()
}
