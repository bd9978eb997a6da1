package seasonality

import (
	"context"
	"time"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// fakeRepo serves canned price histories keyed by ticker.
type fakeRepo struct {
	prices  map[string][]contracts.MonthlyPrice
	updated time.Time
}

func (f *fakeRepo) MonthlyPrices(ctx context.Context, ticker string, yearsBack int) ([]contracts.MonthlyPrice, error) {
	return f.prices[ticker], nil
}

func (f *fakeRepo) LastUpdated(ctx context.Context, ticker string) (time.Time, error) {
	return f.updated, nil
}

// maxPrice builds a record carrying only the monthly close maximum.
func maxPrice(ticker string, year, month int, closeMax float64) contracts.MonthlyPrice {
	return contracts.MonthlyPrice{
		Ticker:   ticker,
		Year:     year,
		Month:    month,
		CloseMax: closeMax,
	}
}

// fullPrice builds a record with open, last close and close maximum.
func fullPrice(ticker string, year, month int, openFirst, closeLast, closeMax float64) contracts.MonthlyPrice {
	return contracts.MonthlyPrice{
		Ticker:    ticker,
		Year:      year,
		Month:     month,
		OpenFirst: &openFirst,
		CloseLast: &closeLast,
		CloseMax:  closeMax,
	}
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
		Database:  config.DatabaseConfig{URL: "dummy"},
	})
}

// testCache is backed by a disabled client, so every Get misses and every
// Set is a no-op.
func testCache() *redis.Cache {
	return redis.NewCache(&redis.Client{}, "test")
}
