package prices

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockresearcher/backend/internal/contracts"
)

// StockRepository implements contracts.StockRepository.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new stock repository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// ListTracked returns the tracked-ticker universe. Tier 0 rows are the
// benchmark basket loaded by the pipeline and are not part of the
// screener universe.
func (r *StockRepository) ListTracked(ctx context.Context) ([]contracts.Stock, error) {
	query := `
		SELECT ticker, name, tier
		FROM stocks
		WHERE tier > 0
		ORDER BY tier ASC, ticker ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var s contracts.Stock
		if err := rows.Scan(&s.Ticker, &s.Name, &s.Tier); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
