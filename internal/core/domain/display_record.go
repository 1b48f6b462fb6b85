package domain

import "github.com/shopspring/decimal"

// ChangeDirection classifies how a currency moved against the USD since
// the previous observation.
type ChangeDirection string

const (
	// DirectionStrengthened means the USD gained against the foreign
	// currency (the foreign rate fell).
	DirectionStrengthened ChangeDirection = "strengthened"
	// DirectionWeakened means the USD lost against the foreign currency.
	DirectionWeakened ChangeDirection = "weakened"
	// DirectionUnchanged covers moves inside the +/-0.1% tolerance band.
	DirectionUnchanged ChangeDirection = "unchanged"
)

// DisplayRecord carries the display-ready values for one currency.
// Computed fresh per request, never cached.
type DisplayRecord struct {
	Code          string          `json:"code"`
	USDPerForeign decimal.Decimal `json:"usdPerForeign"` // 1 / mid
	ForeignPerUSD decimal.Decimal `json:"foreignPerUSD"` // mid
	USDBuy        decimal.Decimal `json:"usdBuy"`        // spread-adjusted buy side
	ForeignSell   decimal.Decimal `json:"foreignSell"`   // spread-adjusted sell side
	ChangePct     decimal.Decimal `json:"changePct"`     // signed
	ChangeAbs     decimal.Decimal `json:"changeAbs"`     // display magnitude
	Direction     ChangeDirection `json:"direction"`
	// USDFirst is a formatting hint only: which orientation to print
	// first. It has no effect on the computed values.
	USDFirst bool `json:"usdFirst"`
	// PreviousSavedAt is the unix time the comparison rate was stored,
	// zero when the previous rate was unknown.
	PreviousSavedAt int64 `json:"previousSavedAt,omitempty"`
}
