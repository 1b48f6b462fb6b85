package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/core/ports"
	"github.com/mikeoc61/currency-monitor/internal/utils"
)

// Fingerprint computes a deterministic digest over the canonical
// pair->rate serialization of a quote table. Rates are normalized first
// so two batches carrying the same values always hash identically
// regardless of how the provider spelled them.
func Fingerprint(table domain.QuoteTable, precision int32) string {
	pairs := table.Pairs()
	sort.Strings(pairs)

	h := sha256.New()
	for _, pair := range pairs {
		value := table.Quotes[pair]
		if d, err := NormalizeRate(value, precision); err == nil {
			value = d.String()
		}
		fmt.Fprintf(h, "%s=%s\n", pair, value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NextDelay schedules the next poll so it stays aligned to the
// provider's own update cadence instead of a fixed wall-clock offset:
// the suspension is the absolute difference between the poll interval
// and the age of the latest quote batch.
func NextDelay(interval time.Duration, now time.Time, batchAsOf int64) time.Duration {
	sinceQuote := now.Sub(time.Unix(batchAsOf, 0))
	delay := interval - sinceQuote
	if delay < 0 {
		delay = -delay
	}
	if delay < time.Second {
		delay = time.Second
	}
	return delay
}

// MonitorService polls the quote source, detects quote-set changes via
// fingerprint comparison and writes colored per-currency detail to a
// console. State between cycles lives entirely in process memory; the
// rate store is never consulted.
type MonitorService struct {
	source    ports.QuoteSource
	basket    []string
	interval  time.Duration
	precision int32
	out       io.Writer
	color     bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewMonitorService creates a console monitor for the given basket.
func NewMonitorService(source ports.QuoteSource, basket []string, interval time.Duration, precision int32, out io.Writer, color bool, logger *slog.Logger) *MonitorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitorService{
		source:    source,
		basket:    basket,
		interval:  interval,
		precision: precision,
		out:       out,
		color:     color,
		logger:    logger,
		now:       time.Now,
	}
}

// Run polls until the context is cancelled. A fetch failure skips the
// tick and retries after the base interval; once the context is done no
// further network calls are made.
func (m *MonitorService) Run(ctx context.Context) error {
	fmt.Fprintf(m.out, "%s Begin monitoring\n", utils.TimeStamp(m.now()))

	state := &domain.PollState{}
	first := true

	for {
		delay := m.interval

		table, err := m.source.FetchLive(ctx, m.basket)
		if err != nil {
			m.logger.Warn("Quote fetch failed, skipping tick", slog.String("error", err.Error()))
		} else {
			m.processTable(state, table, first)
			first = false
			delay = NextDelay(m.interval, m.now(), table.AsOf)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			fmt.Fprintf(m.out, "\n%s Monitoring stopped\n", utils.TimeStamp(m.now()))
			return nil
		case <-timer.C:
		}
	}
}

// Cycle runs one poll comparison against the carried state and reports
// whether anything changed. Exposed for single-shot use and tests; Run
// drives it indirectly through processTable.
func (m *MonitorService) Cycle(state *domain.PollState, table domain.QuoteTable) bool {
	fingerprint := Fingerprint(table, m.precision)
	if state.Fingerprint != "" && fingerprint == state.Fingerprint {
		return false
	}
	*state = domain.PollState{Fingerprint: fingerprint, Quotes: table}
	return true
}

// processTable renders one poll cycle: the full table on the first
// pass, per-currency change detail when the fingerprint moved, a
// one-liner otherwise.
func (m *MonitorService) processTable(state *domain.PollState, table domain.QuoteTable, first bool) {
	fingerprint := Fingerprint(table, m.precision)

	switch {
	case first:
		m.printTable(table)
	case fingerprint == state.Fingerprint:
		fmt.Fprintf(m.out, "%s No change\n", utils.TimeStamp(m.now()))
		return // PollState only moves when content does
	default:
		fmt.Fprintf(m.out, "\n%s Change(s) detected\n\n", utils.TimeStamp(m.now()))
		m.printChanges(state.Quotes, table)
	}

	*state = domain.PollState{Fingerprint: fingerprint, Quotes: table}
}

// printTable writes every quote of the batch without change detail.
func (m *MonitorService) printTable(table domain.QuoteTable) {
	for _, pair := range sortedPairs(table) {
		rate, err := NormalizeRate(table.Quotes[pair], m.precision)
		if err != nil || rate.IsZero() {
			m.skip(pair, err)
			continue
		}
		fmt.Fprintf(m.out, "%s\n", m.line(pair, rate))
	}
}

// printChanges classifies every pair of the new batch against the
// previously displayed table and writes direction-colored detail.
func (m *MonitorService) printChanges(previous, table domain.QuoteTable) {
	for _, pair := range sortedPairs(table) {
		rate, err := NormalizeRate(table.Quotes[pair], m.precision)
		if err != nil || rate.IsZero() {
			m.skip(pair, err)
			continue
		}

		prevRate := decimal.Zero
		prevKnown := false
		if raw, ok := previous.Quotes[pair]; ok {
			if d, perr := NormalizeRate(raw, m.precision); perr == nil {
				prevRate = d
				prevKnown = true
			}
		}

		change, err := ClassifyChange(rate, prevRate, prevKnown)
		if err != nil {
			m.skip(pair, err)
			continue
		}

		line := fmt.Sprintf("%s   %5s%%", m.line(pair, rate), change.Abs.StringFixed(2))
		fmt.Fprintf(m.out, "%s\n", utils.Colorize(line, change.Direction, m.color))
	}
}

// line formats both quote orientations for one pair.
func (m *MonitorService) line(pair string, rate decimal.Decimal) string {
	code := domain.CodeFromPair(pair)
	return fmt.Sprintf("%s/USD: %9s   USD/%s: %10s",
		code, one.Div(rate).StringFixed(5),
		code, rate.StringFixed(5))
}

func (m *MonitorService) skip(pair string, err error) {
	if err == nil {
		err = fmt.Errorf("zero rate")
	}
	m.logger.Warn("Skipping pair in cycle",
		slog.String("pair", pair),
		slog.String("error", err.Error()))
}

func sortedPairs(table domain.QuoteTable) []string {
	pairs := table.Pairs()
	sort.Strings(pairs)
	return pairs
}
