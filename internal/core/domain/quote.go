package domain

import "strings"

// QuoteTable is one batch of quotes sharing a single provider
// timestamp. Rates are kept exactly as the provider's text until the
// normalizer fixes their precision, so no binary floating point
// representation ever enters the pipeline.
type QuoteTable struct {
	AsOf   int64             `json:"asOf"`   // unix seconds
	Quotes map[string]string `json:"quotes"` // pair -> raw mid rate
}

// CodeFromPair derives the 3-letter currency code from a 6-letter pair
// code. Rates are quoted against USD, so the trailing characters name
// the foreign currency of a "USD<CODE>" pair.
func CodeFromPair(pair string) string {
	if len(pair) < 3 {
		return strings.ToUpper(pair)
	}
	return strings.ToUpper(pair[len(pair)-3:])
}

// Quote is a single rate observation for one currency pair, immutable
// once fetched from the quote source.
type Quote struct {
	Pair string `json:"pair"` // e.g. "USDEUR"
	Rate string `json:"rate"` // raw provider text
	AsOf int64  `json:"asOf"` // unix seconds
}

// At returns the quote for one pair of the batch.
func (t QuoteTable) At(pair string) (Quote, bool) {
	raw, ok := t.Quotes[pair]
	if !ok {
		return Quote{}, false
	}
	return Quote{Pair: pair, Rate: raw, AsOf: t.AsOf}, true
}

// Pairs returns the pair codes of the table in unspecified order.
func (t QuoteTable) Pairs() []string {
	pairs := make([]string, 0, len(t.Quotes))
	for pair := range t.Quotes {
		pairs = append(pairs, pair)
	}
	return pairs
}
