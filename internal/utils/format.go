package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
)

// stampLayout matches the "02 Jan 2006 15:04 MST" stamps shown next to
// quote and cache timestamps.
const stampLayout = "02 Jan 2006 15:04 MST"

// TimeStamp formats a wall-clock time for display.
func TimeStamp(t time.Time) string {
	return t.Format(stampLayout)
}

// UnixStamp formats a unix-seconds timestamp in local time.
func UnixStamp(sec int64) string {
	return time.Unix(sec, 0).Format(stampLayout)
}

// FormatRate renders a rate with a fixed number of decimal places.
func FormatRate(rate decimal.Decimal, places int32) string {
	return rate.StringFixed(places)
}

// ANSI escape sequences used by the console monitor.
const (
	ansiGreen  = "\033[92m"
	ansiRed    = "\033[91m"
	ansiYellow = "\033[93m"
	ansiReset  = "\033[0m"
)

// Colorize wraps a console line in the ANSI color conventionally tied
// to the change direction: green when the USD strengthened, red when it
// weakened, yellow when unchanged. With color disabled the line passes
// through untouched.
func Colorize(line string, direction domain.ChangeDirection, enabled bool) string {
	if !enabled {
		return line
	}
	switch direction {
	case domain.DirectionStrengthened:
		return ansiGreen + line + ansiReset
	case domain.DirectionWeakened:
		return ansiRed + line + ansiReset
	default:
		return ansiYellow + line + ansiReset
	}
}
