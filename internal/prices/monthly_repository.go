// Package prices implements the Postgres-backed repositories over the
// schema the data pipeline loads: monthly_prices and stocks.
package prices

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockresearcher/backend/internal/contracts"
)

// MonthlyRepository implements contracts.MonthlyPriceRepository.
type MonthlyRepository struct {
	pool *pgxpool.Pool
}

// NewMonthlyRepository creates a new monthly price repository.
func NewMonthlyRepository(pool *pgxpool.Pool) *MonthlyRepository {
	return &MonthlyRepository{pool: pool}
}

// MonthlyPrices returns up to yearsBack years of records for a ticker,
// ordered by (year, month) ascending. Uniqueness per (ticker, year, month)
// is enforced by the table's primary key.
func (r *MonthlyRepository) MonthlyPrices(ctx context.Context, ticker string, yearsBack int) ([]contracts.MonthlyPrice, error) {
	query := `
		SELECT ticker, year, month, open_first, high_max, low_min, close_max, close_last, volume_total, trading_days
		FROM monthly_prices
		WHERE ticker = $1 AND year >= $2
		ORDER BY year ASC, month ASC
	`

	fromYear := time.Now().Year() - yearsBack
	rows, err := r.pool.Query(ctx, query, ticker, fromYear)
	if err != nil {
		return nil, fmt.Errorf("query monthly prices: %w", err)
	}
	defer rows.Close()

	var prices []contracts.MonthlyPrice
	for rows.Next() {
		var p contracts.MonthlyPrice
		if err := rows.Scan(
			&p.Ticker, &p.Year, &p.Month,
			&p.OpenFirst, &p.HighMax, &p.LowMin, &p.CloseMax, &p.CloseLast,
			&p.VolumeTotal, &p.TradingDays,
		); err != nil {
			return nil, fmt.Errorf("scan monthly price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// LastUpdated reports when the ticker's history was last touched by the
// ingestion pipeline, falling back to the first day of the most recent
// data month for rows loaded before updated_at existed.
func (r *MonthlyRepository) LastUpdated(ctx context.Context, ticker string) (time.Time, error) {
	query := `
		SELECT COALESCE(
			MAX(updated_at),
			MAX(make_date(year, month, 1))::timestamptz
		)
		FROM monthly_prices
		WHERE ticker = $1
	`

	var lastUpdated *time.Time
	if err := r.pool.QueryRow(ctx, query, ticker).Scan(&lastUpdated); err != nil {
		return time.Time{}, fmt.Errorf("query last updated: %w", err)
	}
	if lastUpdated == nil {
		return time.Time{}, nil
	}
	return *lastUpdated, nil
}
