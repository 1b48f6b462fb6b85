package utils

// CurrencyNames maps ISO 4217 codes to their definitions for the
// currencies commonly carried in a basket. Codes outside this table are
// resolved against the provider's list endpoint at runtime.
var CurrencyNames = map[string]string{
	"AED": "United Arab Emirates Dirham",
	"ARS": "Argentine Peso",
	"AUD": "Australian Dollar",
	"BRL": "Brazilian Real",
	"BTC": "Bitcoin",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CLP": "Chilean Peso",
	"CNY": "Chinese Yuan",
	"COP": "Colombian Peso",
	"CZK": "Czech Republic Koruna",
	"DKK": "Danish Krone",
	"EUR": "Euro",
	"GBP": "British Pound Sterling",
	"HKD": "Hong Kong Dollar",
	"HUF": "Hungarian Forint",
	"IDR": "Indonesian Rupiah",
	"ILS": "Israeli New Sheqel",
	"INR": "Indian Rupee",
	"ISK": "Icelandic Krona",
	"JPY": "Japanese Yen",
	"KRW": "South Korean Won",
	"MXN": "Mexican Peso",
	"MYR": "Malaysian Ringgit",
	"NOK": "Norwegian Krone",
	"NZD": "New Zealand Dollar",
	"PHP": "Philippine Peso",
	"PLN": "Polish Zloty",
	"RON": "Romanian Leu",
	"RUB": "Russian Ruble",
	"SAR": "Saudi Riyal",
	"SEK": "Swedish Krona",
	"SGD": "Singapore Dollar",
	"THB": "Thai Baht",
	"TRY": "Turkish Lira",
	"TWD": "New Taiwan Dollar",
	"USD": "United States Dollar",
	"VND": "Vietnamese Dong",
	"ZAR": "South African Rand",
}
