package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mikeoc61/currency-monitor/internal/apperrors"
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	"github.com/mikeoc61/currency-monitor/internal/models"
)

// PgxRateRepository implements the ports.RateRepository interface using
// pgxpool. One row per currency code; writes fully replace the rate and
// save time, so concurrent cycles racing on a key resolve to
// last-writer-wins.
type PgxRateRepository struct {
	BaseRepository
}

// NewPgxRateRepository creates a new PgxRateRepository.
func NewPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetCachedRate retrieves the saved rate for a currency code, or
// apperrors.ErrNotFound when the code was never observed.
func (r *PgxRateRepository) GetCachedRate(ctx context.Context, code string) (domain.CachedRate, error) {
	code = strings.ToUpper(code)

	var row models.CachedRate
	err := r.Pool.QueryRow(ctx,
		`SELECT code, rate, saved_at FROM cached_rates WHERE code = $1`,
		code,
	).Scan(&row.Code, &row.Rate, &row.SavedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CachedRate{}, fmt.Errorf("%w: no cached rate for %s", apperrors.ErrNotFound, code)
		}
		return domain.CachedRate{}, fmt.Errorf("%w: failed to get cached rate for %s: %v", apperrors.ErrStoreUnavailable, code, err)
	}
	return row.ToDomain(), nil
}

// PutCachedRate inserts or replaces the cached rate for one code.
func (r *PgxRateRepository) PutCachedRate(ctx context.Context, rate domain.CachedRate) error {
	if len(rate.Code) != 3 {
		return fmt.Errorf("%w: currency code must be 3 letters, got %q", apperrors.ErrValidation, rate.Code)
	}

	row := models.FromDomain(rate)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO cached_rates (code, rate, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET rate = EXCLUDED.rate, saved_at = EXCLUDED.saved_at`,
		strings.ToUpper(row.Code), row.Rate, row.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to put cached rate for %s: %v", apperrors.ErrStoreUnavailable, rate.Code, err)
	}
	return nil
}

// SaveCachedRates stores a whole batch inside one transaction, used for
// initial population of the store.
func (r *PgxRateRepository) SaveCachedRates(ctx context.Context, rates []domain.CachedRate) error {
	if len(rates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	for _, rate := range rates {
		row := models.FromDomain(rate)
		_, err = tx.Exec(ctx, `
			INSERT INTO cached_rates (code, rate, saved_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET rate = EXCLUDED.rate, saved_at = EXCLUDED.saved_at`,
			strings.ToUpper(row.Code), row.Rate, row.SavedAt,
		)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return fmt.Errorf("%w: failed to save cached rate for %s: %v", apperrors.ErrStoreUnavailable, rate.Code, err)
		}
	}

	return r.Commit(ctx, tx)
}
