package prices

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/database"
)

func testPool(t *testing.T) *database.DB {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}

func TestMonthlyPrices(t *testing.T) {
	db := testPool(t)
	repo := NewMonthlyRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prices, err := repo.MonthlyPrices(ctx, "SPY", 5)
	if err != nil {
		t.Fatalf("MonthlyPrices failed: %v", err)
	}

	fromYear := time.Now().Year() - 5
	for i, p := range prices {
		if p.Ticker != "SPY" {
			t.Errorf("row %d: expected ticker SPY, got %s", i, p.Ticker)
		}
		if p.Year < fromYear {
			t.Errorf("row %d: year %d older than window start %d", i, p.Year, fromYear)
		}
		if p.Month < 1 || p.Month > 12 {
			t.Errorf("row %d: month %d out of range", i, p.Month)
		}
		if i > 0 {
			prev := prices[i-1]
			if p.Year < prev.Year || (p.Year == prev.Year && p.Month <= prev.Month) {
				t.Errorf("row %d: not ordered by (year, month) ascending", i)
			}
		}
	}

	t.Logf("Loaded %d monthly rows", len(prices))
}

func TestMonthlyPricesUnknownTicker(t *testing.T) {
	db := testPool(t)
	repo := NewMonthlyRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prices, err := repo.MonthlyPrices(ctx, "ZZZ_NO_SUCH_TICKER", 26)
	if err != nil {
		t.Fatalf("MonthlyPrices failed: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("Expected no rows for unknown ticker, got %d", len(prices))
	}
}

func TestLastUpdated(t *testing.T) {
	db := testPool(t)
	repo := NewMonthlyRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updated, err := repo.LastUpdated(ctx, "SPY")
	if err != nil {
		t.Fatalf("LastUpdated failed: %v", err)
	}

	// Zero time only for tickers with no history at all.
	none, err := repo.LastUpdated(ctx, "ZZZ_NO_SUCH_TICKER")
	if err != nil {
		t.Fatalf("LastUpdated failed: %v", err)
	}
	if !none.IsZero() {
		t.Errorf("Expected zero time for unknown ticker, got %v", none)
	}

	t.Logf("SPY last updated: %v", updated)
}

func TestListTracked(t *testing.T) {
	db := testPool(t)
	repo := NewStockRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stocks, err := repo.ListTracked(ctx)
	if err != nil {
		t.Fatalf("ListTracked failed: %v", err)
	}

	for i, s := range stocks {
		if s.Tier <= 0 {
			t.Errorf("row %d: tier %d should be excluded from the universe", i, s.Tier)
		}
		if s.Ticker == "" {
			t.Errorf("row %d: empty ticker", i)
		}
	}

	t.Logf("Tracked universe: %d stocks", len(stocks))
}
