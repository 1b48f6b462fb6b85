package domain

// CurrencyName pairs a 3-letter currency code with its human readable
// definition, e.g. "EUR" -> "Euro".
type CurrencyName struct {
	Code string `json:"code"`
	Name string `json:"name"` // empty when the code is unknown
}
