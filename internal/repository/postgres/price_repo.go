package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// PriceRepository implements domain.RateProvider over the prices table,
// serving the most recent stored observation for a pair. It never backfills
// or interpolates; a pair with no row is a hard error surfaced to the caller.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetRate returns the latest stored rate for the pair
func (r *PriceRepository) GetRate(base, quote string) (*domain.Rate, error) {
	var rate domain.Rate
	err := r.pool.QueryRow(context.Background(), `
		SELECT base, quote, rate, timestamp, source
		FROM prices
		WHERE base = $1 AND quote = $2
		ORDER BY timestamp DESC
		LIMIT 1`, base, quote).
		Scan(&rate.Base, &rate.Quote, &rate.Rate, &rate.Timestamp, &rate.Source)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrMissingRate, base, quote)
		}
		return nil, err
	}
	return &rate, nil
}

// SaveRate stores one rate observation
func (r *PriceRepository) SaveRate(rate *domain.Rate) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO prices (base, quote, rate, timestamp, source)
		VALUES ($1, $2, $3, $4, $5)`,
		rate.Base, rate.Quote, rate.Rate, rate.Timestamp, rate.Source)
	return err
}
