package contracts

import (
	"context"
	"time"
)

// MonthlyPrice is one canonical per-(ticker, year, month) price aggregate
// as loaded by the data pipeline. Optional columns are pointers so a SQL
// NULL stays distinguishable from zero; CloseMax is always present.
type MonthlyPrice struct {
	Ticker      string
	Year        int
	Month       int // 1-12
	OpenFirst   *float64
	HighMax     *float64
	LowMin      *float64
	CloseMax    float64
	CloseLast   *float64
	VolumeTotal *int64
	TradingDays *int
}

// EntryOpen returns the first-day open, falling back to the monthly
// close maximum when the open was not recorded.
func (p *MonthlyPrice) EntryOpen() float64 {
	if p.OpenFirst != nil {
		return *p.OpenFirst
	}
	return p.CloseMax
}

// ExitClose returns the last-day close, falling back to the monthly
// close maximum when the close was not recorded.
func (p *MonthlyPrice) ExitClose() float64 {
	if p.CloseLast != nil {
		return *p.CloseLast
	}
	return p.CloseMax
}

// Stock is one tracked ticker from the stocks table.
type Stock struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Tier   int    `json:"tier"`
}

// MonthlyPriceRepository supplies monthly price aggregates.
// Uniqueness per (ticker, year, month) is guaranteed by the store.
type MonthlyPriceRepository interface {
	// MonthlyPrices returns up to yearsBack years of records for a ticker,
	// ordered by (year, month) ascending. An unknown ticker yields an
	// empty slice, not an error.
	MonthlyPrices(ctx context.Context, ticker string, yearsBack int) ([]MonthlyPrice, error)

	// LastUpdated reports when the ticker's price history was last
	// extended (the first day of its most recent data month).
	LastUpdated(ctx context.Context, ticker string) (time.Time, error)
}

// StockRepository lists the tracked-ticker universe.
type StockRepository interface {
	ListTracked(ctx context.Context) ([]Stock, error)
}
