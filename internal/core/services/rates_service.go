package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/apperrors"
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/core/ports"
	portssvc "github.com/mikeoc61/currency-monitor/internal/core/ports/services"
	"github.com/mikeoc61/currency-monitor/internal/utils"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// changeTolerance is the half-width of the "unchanged" band: moves
	// strictly inside (-0.1%, +0.1%) are not classified as a change.
	changeTolerance = decimal.RequireFromString("0.1")

	// Spread bounds in percentage points, matching the provider form
	// limits the service was built around.
	spreadMin = decimal.RequireFromString("0.10")
	spreadMax = decimal.RequireFromString("2.0")
)

// NormalizeRate parses a textual rate into a decimal rounded to the
// given number of significant digits. The text round trip is what keeps
// binary floating point noise out of successive comparisons of the
// "same" rate.
func NormalizeRate(raw string, precision int32) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: cannot parse %q", apperrors.ErrInvalidRate, raw)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative rate %q", apperrors.ErrInvalidRate, raw)
	}
	return roundSignificant(d, precision), nil
}

// NormalizeRateFloat converts a binary floating point rate through its
// shortest decimal text representation before normalizing.
func NormalizeRateFloat(f float64, precision int32) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("%w: non-finite rate", apperrors.ErrInvalidRate)
	}
	return NormalizeRate(strconv.FormatFloat(f, 'f', -1, 64), precision)
}

// roundSignificant rounds d to the given number of significant digits,
// half away from zero. Zero is returned unchanged.
func roundSignificant(d decimal.Decimal, sig int32) decimal.Decimal {
	if d.IsZero() || sig <= 0 {
		return d
	}
	// Digits before the decimal point; non-positive for values < 1.
	intDigits := d.NumDigits() + int(d.Exponent())
	return d.Round(sig - int32(intDigits))
}

// SpreadQuote carries the four adjusted values derived from one mid
// rate. USDBuy and ForeignSell always disadvantage the counterparty
// direction relative to the unadjusted quote.
type SpreadQuote struct {
	USDPerForeign decimal.Decimal
	ForeignPerUSD decimal.Decimal
	USDBuy        decimal.Decimal
	ForeignSell   decimal.Decimal
}

// ComputeSpread derives both quote directions and their spread-adjusted
// buy/sell values from a mid-market rate. spreadPct is in percentage
// points and must lie inside [0.10, 2.0].
func ComputeSpread(mid, spreadPct decimal.Decimal, precision int32) (SpreadQuote, error) {
	if mid.IsZero() {
		return SpreadQuote{}, fmt.Errorf("%w: mid rate is zero", apperrors.ErrDivision)
	}
	if mid.IsNegative() {
		return SpreadQuote{}, fmt.Errorf("%w: negative mid rate %s", apperrors.ErrInvalidRate, mid)
	}
	if spreadPct.LessThan(spreadMin) || spreadPct.GreaterThan(spreadMax) {
		return SpreadQuote{}, fmt.Errorf("%w: spread %s%% outside [%s, %s]",
			apperrors.ErrValidation, spreadPct, spreadMin, spreadMax)
	}

	factor := one.Add(spreadPct.Div(hundred))
	usdPerForeign := one.Div(mid)

	return SpreadQuote{
		USDPerForeign: roundSignificant(usdPerForeign, precision),
		ForeignPerUSD: roundSignificant(mid, precision),
		USDBuy:        roundSignificant(usdPerForeign.Mul(factor), precision),
		ForeignSell:   roundSignificant(mid.Div(factor), precision),
	}, nil
}

// Change is the outcome of comparing a current rate to a prior one.
type Change struct {
	Pct       decimal.Decimal // signed percentage change
	Abs       decimal.Decimal // display magnitude
	Direction domain.ChangeDirection
}

// ClassifyChange computes the percentage change of current against
// previous and buckets it. previousKnown=false marks the sentinel "never
// observed" case: the current rate is substituted for the prior one,
// which defines a 0% unchanged result instead of a division fault. A
// known zero previous rate is a data-integrity fault and is not
// recovered silently.
func ClassifyChange(current, previous decimal.Decimal, previousKnown bool) (Change, error) {
	if !previousKnown {
		previous = current
	}
	if previous.IsZero() {
		if !previousKnown || current.IsZero() {
			// Sentinel substitution with a zero current rate still has
			// nothing to divide by; change is 0 by definition.
			return Change{Pct: decimal.Zero, Abs: decimal.Zero, Direction: domain.DirectionUnchanged}, nil
		}
		return Change{}, fmt.Errorf("%w: previous rate is zero", apperrors.ErrDivision)
	}

	pct := one.Sub(current.Div(previous)).Mul(hundred)

	direction := domain.DirectionUnchanged
	switch {
	case pct.GreaterThanOrEqual(changeTolerance):
		direction = domain.DirectionWeakened
	case pct.LessThanOrEqual(changeTolerance.Neg()):
		direction = domain.DirectionStrengthened
	}

	return Change{Pct: pct, Abs: pct.Abs(), Direction: direction}, nil
}

// RatesService builds display-ready rate boards from live quotes and a
// prior-rate store. All tuning knobs (precision, USD-first set,
// staleness policy) arrive via explicit parameters, not globals.
type RatesService struct {
	source    ports.QuoteSource
	store     ports.RateRepository
	staleness *StalenessService
	precision int32
	usdFirst  map[string]struct{}
	logger    *slog.Logger
}

// NewRatesService creates a new RatesService. usdFirst lists the
// currency codes whose USD-per-foreign orientation is displayed first.
func NewRatesService(source ports.QuoteSource, store ports.RateRepository, staleness *StalenessService, precision int32, usdFirst []string, logger *slog.Logger) *RatesService {
	first := make(map[string]struct{}, len(usdFirst))
	for _, code := range usdFirst {
		first[strings.ToUpper(code)] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RatesService{
		source:    source,
		store:     store,
		staleness: staleness,
		precision: precision,
		usdFirst:  first,
		logger:    logger,
	}
}

// GetRateBoard fetches live quotes for the basket and derives one
// display record per currency. Quote source failure is terminal for the
// batch; a fault on a single currency only drops that entry.
func (s *RatesService) GetRateBoard(ctx context.Context, basket []string, spreadPct decimal.Decimal) (*portssvc.RateBoard, error) {
	table, err := s.source.FetchLive(ctx, basket)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch live quotes: %w", err)
	}

	board := &portssvc.RateBoard{AsOf: table.AsOf}

	for _, pair := range table.Pairs() {
		code := domain.CodeFromPair(pair)

		record, err := s.buildRecord(ctx, pair, table.Quotes[pair], table.AsOf, spreadPct)
		if err != nil {
			s.logger.Warn("Skipping currency in batch",
				slog.String("code", code),
				slog.String("error", err.Error()))
			board.Skipped = append(board.Skipped, code)
			continue
		}
		board.Records = append(board.Records, record)
	}

	sort.Slice(board.Records, func(i, j int) bool {
		return board.Records[i].Code < board.Records[j].Code
	})
	sort.Strings(board.Skipped)

	return board, nil
}

// buildRecord derives the display record for one pair and conditionally
// refreshes the stored rate when it has gone stale.
func (s *RatesService) buildRecord(ctx context.Context, pair, raw string, batchAsOf int64, spreadPct decimal.Decimal) (domain.DisplayRecord, error) {
	code := domain.CodeFromPair(pair)

	current, err := NormalizeRate(raw, s.precision)
	if err != nil {
		return domain.DisplayRecord{}, err
	}

	previous := s.lookupPrevious(ctx, code)

	change, err := ClassifyChange(current, previous.Rate, !previous.IsSentinel())
	if err != nil {
		return domain.DisplayRecord{}, err
	}

	spread, err := ComputeSpread(current, spreadPct, s.precision)
	if err != nil {
		return domain.DisplayRecord{}, err
	}

	s.staleness.RefreshIfStale(ctx, code, current, batchAsOf, previous)

	_, usdFirst := s.usdFirst[code]
	return domain.DisplayRecord{
		Code:            code,
		USDPerForeign:   spread.USDPerForeign,
		ForeignPerUSD:   spread.ForeignPerUSD,
		USDBuy:          spread.USDBuy,
		ForeignSell:     spread.ForeignSell,
		ChangePct:       change.Pct,
		ChangeAbs:       change.Abs,
		Direction:       change.Direction,
		USDFirst:        usdFirst,
		PreviousSavedAt: previous.SavedAt,
	}, nil
}

// lookupPrevious reads the prior rate for a code, degrading to the
// sentinel when the code is unknown or the store is unreachable so the
// rendering path stays available.
func (s *RatesService) lookupPrevious(ctx context.Context, code string) domain.CachedRate {
	previous, err := s.store.GetCachedRate(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Rate store read failed, treating previous rate as unknown",
				slog.String("code", code),
				slog.String("error", err.Error()))
		}
		return domain.SentinelRate(code)
	}
	return previous
}

// ListCurrencies resolves each basket code to its definition,
// de-duplicated and in basket order. Codes missing from the built-in
// table are looked up against the provider's list endpoint; if that
// fails too they are reported with an empty name.
func (s *RatesService) ListCurrencies(ctx context.Context, basket []string) ([]domain.CurrencyName, error) {
	seen := make(map[string]struct{}, len(basket))
	var remote map[string]string

	names := make([]domain.CurrencyName, 0, len(basket))
	for _, raw := range basket {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		name, ok := utils.CurrencyNames[code]
		if !ok {
			if remote == nil {
				remote = s.fetchRemoteList(ctx)
			}
			name = remote[code]
		}
		names = append(names, domain.CurrencyName{Code: code, Name: name})
	}
	return names, nil
}

// fetchRemoteList pulls the provider's code listing, returning an empty
// map on failure so unknown codes simply stay unknown.
func (s *RatesService) fetchRemoteList(ctx context.Context) map[string]string {
	listing, err := s.source.FetchList(ctx)
	if err != nil {
		s.logger.Warn("Currency list fetch failed", slog.String("error", err.Error()))
		return map[string]string{}
	}
	return listing
}
