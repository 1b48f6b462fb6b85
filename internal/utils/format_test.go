package utils_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/utils"
)

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.8938", utils.FormatRate(decimal.RequireFromString("0.893764"), 4))
	assert.Equal(t, "147.20350", utils.FormatRate(decimal.RequireFromString("147.2035"), 5))
}

func TestColorizeDisabledPassesThrough(t *testing.T) {
	line := "EUR/USD: 1.11886"
	assert.Equal(t, line, utils.Colorize(line, domain.DirectionStrengthened, false))
}

func TestColorizeWrapsAndResets(t *testing.T) {
	for _, direction := range []domain.ChangeDirection{
		domain.DirectionStrengthened,
		domain.DirectionWeakened,
		domain.DirectionUnchanged,
	} {
		colored := utils.Colorize("line", direction, true)
		assert.True(t, strings.HasPrefix(colored, "\033["), "direction %s", direction)
		assert.True(t, strings.HasSuffix(colored, "\033[0m"), "direction %s", direction)
		assert.Contains(t, colored, "line")
	}
}

func TestColorizeDirectionsDiffer(t *testing.T) {
	up := utils.Colorize("x", domain.DirectionStrengthened, true)
	down := utils.Colorize("x", domain.DirectionWeakened, true)
	assert.NotEqual(t, up, down)
}
