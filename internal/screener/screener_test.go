package screener

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

type fakeStocks struct {
	stocks []contracts.Stock
}

func (f *fakeStocks) ListTracked(ctx context.Context) ([]contracts.Stock, error) {
	return f.stocks, nil
}

type fakePrices struct {
	prices map[string][]contracts.MonthlyPrice
}

func (f *fakePrices) MonthlyPrices(ctx context.Context, ticker string, yearsBack int) ([]contracts.MonthlyPrice, error) {
	return f.prices[ticker], nil
}

func (f *fakePrices) LastUpdated(ctx context.Context, ticker string) (time.Time, error) {
	return time.Time{}, nil
}

func maxPrice(ticker string, year, month int, closeMax float64) contracts.MonthlyPrice {
	return contracts.MonthlyPrice{Ticker: ticker, Year: year, Month: month, CloseMax: closeMax}
}

// januaryHistory builds 5 years of January→February close maxima, one
// exit price per year.
func januaryHistory(ticker string, febCloses ...float64) []contracts.MonthlyPrice {
	prices := make([]contracts.MonthlyPrice, 0, 2*len(febCloses))
	for i, feb := range febCloses {
		year := 2017 + i
		prices = append(prices,
			maxPrice(ticker, year, 1, 100),
			maxPrice(ticker, year, 2, feb),
		)
	}
	return prices
}

func testScreener(t *testing.T) *Screener {
	t.Helper()

	stocks := &fakeStocks{stocks: []contracts.Stock{
		{Ticker: "AAA", Name: "Alpha Corp", Tier: 1},
		{Ticker: "BBB", Name: "Beta Inc", Tier: 1},
		{Ticker: "CCC", Name: "Gamma Ltd", Tier: 2},
		{Ticker: "DDD", Name: "Delta Co", Tier: 2}, // no price history
	}}

	prices := &fakePrices{prices: map[string][]contracts.MonthlyPrice{
		"AAA": januaryHistory("AAA", 110, 110, 110, 110, 110), // +10% every year
		"BBB": januaryHistory("BBB", 105, 105, 105, 105, 105), // +5% every year
		"CCC": januaryHistory("CCC", 104, 104, 104, 104, 98),  // 4 wins, 1 loss
		"SPY": januaryHistory("SPY", 102, 102, 102, 102, 102), // +2% baseline
	}}

	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
		Database:  config.DatabaseConfig{URL: "dummy"},
	})
	cache := redis.NewCache(&redis.Client{}, "test")
	benchmark := seasonality.NewBenchmark(prices, []string{"SPY"}, cache, log)

	return New(stocks, prices, benchmark, 26, log)
}

func TestScreener_Scan(t *testing.T) {
	s := testScreener(t)

	result, err := s.Scan(context.Background(), Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{1}})
	require.NoError(t, err)

	// One qualifying January pattern per ticker with history; the
	// history-less ticker is skipped, not an error.
	assert.Equal(t, 3, result.TotalPatterns)
	assert.Equal(t, 3, result.TotalStocks)
	require.Len(t, result.Rows, 3)

	// Sorted by score descending.
	assert.Equal(t, "AAA", result.Rows[0].Ticker)
	assert.Equal(t, "BBB", result.Rows[1].Ticker)
	assert.Equal(t, "CCC", result.Rows[2].Ticker)

	top := result.Rows[0]
	assert.Equal(t, 1, top.EntryMonth)
	assert.Equal(t, 1, top.HoldingPeriod)
	assert.Equal(t, 100, top.WinRate)
	assert.Equal(t, 5, top.Count)
	assert.Equal(t, 10.0, top.AvgReturn)
	assert.Equal(t, 10.0, top.AvgPerMonth)
	assert.Equal(t, 2.0, top.MarketPerMonth)
	assert.Equal(t, 8.0, top.Alpha)
	assert.InDelta(t, 22.36, top.Score, 0.01)

	// The mixed ticker: 4 wins of 5, trimmed mean keeps the median +4%.
	mixed := result.Rows[2]
	assert.Equal(t, 80, mixed.WinRate)
	assert.Equal(t, 4.0, mixed.AvgReturn)
}

func TestScreener_FlatYearOverYearRows(t *testing.T) {
	s := testScreener(t)

	// With all holding periods open, the consecutive Januaries also pair
	// into flat 12-month patterns (Jan 100 → Jan 100). Zero-minimum
	// filters let those 0%-win-rate rows through; only CCC's February
	// pattern averages below zero and drops out.
	result, err := s.Scan(context.Background(), Filter{Method: contracts.MethodMaxMax})
	require.NoError(t, err)

	assert.Equal(t, 8, result.TotalPatterns)
	assert.Equal(t, 3, result.TotalStocks)
	require.Len(t, result.Rows, 8)

	// Scored rows first, the zero-score flat rows after them.
	assert.Equal(t, "AAA", result.Rows[0].Ticker)
	assert.Equal(t, "BBB", result.Rows[1].Ticker)
	assert.Equal(t, "CCC", result.Rows[2].Ticker)
	for _, row := range result.Rows[:3] {
		assert.Equal(t, 1, row.HoldingPeriod)
	}

	var flat *contracts.ScreenerRow
	for i, row := range result.Rows {
		if row.Ticker == "AAA" && row.HoldingPeriod == 12 && row.EntryMonth == 1 {
			flat = &result.Rows[i]
		}
		// CCC's Feb→Feb pattern averages -0.12 per month and fails the
		// zero minimum.
		if row.Ticker == "CCC" && row.HoldingPeriod == 12 {
			assert.Equal(t, 1, row.EntryMonth)
		}
	}
	require.NotNil(t, flat)
	assert.Equal(t, 0, flat.WinRate)
	assert.Equal(t, 4, flat.Count)
	assert.Equal(t, 0.0, flat.AvgReturn)
	assert.Equal(t, 0.0, flat.Score)
}

func TestScreener_AlphaSingleRounding(t *testing.T) {
	janSeries := func(ticker string, growth float64) []contracts.MonthlyPrice {
		prices := make([]contracts.MonthlyPrice, 0, 5)
		v := 100.0
		for year := 2017; year <= 2021; year++ {
			prices = append(prices, maxPrice(ticker, year, 1, v))
			v *= growth
		}
		return prices
	}

	stocks := &fakeStocks{stocks: []contracts.Stock{{Ticker: "GRW", Tier: 1}}}
	prices := &fakePrices{prices: map[string][]contracts.MonthlyPrice{
		"GRW": janSeries("GRW", 1.10), // +10% every January
		"SPY": janSeries("SPY", 1.05), // +5% every January
	}}

	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
		Database:  config.DatabaseConfig{URL: "dummy"},
	})
	cache := redis.NewCache(&redis.Client{}, "test")
	benchmark := seasonality.NewBenchmark(prices, []string{"SPY"}, cache, log)
	s := New(stocks, prices, benchmark, 26, log)

	result, err := s.Scan(context.Background(), Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{12}})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	// Alpha comes from the raw ratios: (10 - 5) / 12 rounds to 0.42.
	// Subtracting the two already-rounded per-month figures would give
	// 0.83 - 0.42 = 0.41 instead.
	row := result.Rows[0]
	assert.Equal(t, 12, row.HoldingPeriod)
	assert.Equal(t, 0.83, row.AvgPerMonth)
	assert.Equal(t, 0.42, row.MarketPerMonth)
	assert.Equal(t, 0.42, row.Alpha)
}

func TestScreener_Filters(t *testing.T) {
	s := testScreener(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		filter      Filter
		wantTickers []string
	}{
		{
			name:        "min win rate",
			filter:      Filter{Method: contracts.MethodMaxMax, MinWinRate: 90},
			wantTickers: []string{"AAA", "BBB"},
		},
		{
			name:        "min average per month",
			filter:      Filter{Method: contracts.MethodMaxMax, MinAvgPerMonth: 6},
			wantTickers: []string{"AAA"},
		},
		{
			name:        "min years of data",
			filter:      Filter{Method: contracts.MethodMaxMax, MinYears: 6},
			wantTickers: []string{},
		},
		{
			name:        "entry month allow-list misses",
			filter:      Filter{Method: contracts.MethodMaxMax, Months: []int{7}},
			wantTickers: []string{},
		},
		{
			name:        "entry month allow-list hits",
			filter:      Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{1}, Months: []int{1, 7}},
			wantTickers: []string{"AAA", "BBB", "CCC"},
		},
		{
			name:        "holding period allow-list",
			filter:      Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{3, 6}},
			wantTickers: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Scan(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]string, 0, len(result.Rows))
			for _, row := range result.Rows {
				got = append(got, row.Ticker)
			}
			assert.ElementsMatch(t, tt.wantTickers, got)
		})
	}
}

func TestScreener_Limit(t *testing.T) {
	s := testScreener(t)

	result, err := s.Scan(context.Background(), Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{1}, Limit: 2})
	require.NoError(t, err)

	// Totals describe the full qualifying set, not the truncated page.
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 3, result.TotalPatterns)
	assert.Equal(t, 3, result.TotalStocks)
	assert.Equal(t, "AAA", result.Rows[0].Ticker)
	assert.Equal(t, "BBB", result.Rows[1].Ticker)
}

func TestScreener_StableTieOrder(t *testing.T) {
	stocks := &fakeStocks{stocks: []contracts.Stock{
		{Ticker: "TIE1", Tier: 1},
		{Ticker: "TIE2", Tier: 1},
	}}
	prices := &fakePrices{prices: map[string][]contracts.MonthlyPrice{
		"TIE1": januaryHistory("TIE1", 110, 110, 110, 110, 110),
		"TIE2": januaryHistory("TIE2", 110, 110, 110, 110, 110),
	}}

	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
		Database:  config.DatabaseConfig{URL: "dummy"},
	})
	cache := redis.NewCache(&redis.Client{}, "test")
	benchmark := seasonality.NewBenchmark(prices, nil, cache, log)
	s := New(stocks, prices, benchmark, 26, log)

	// Equal scores keep universe order on every scan.
	for i := 0; i < 3; i++ {
		result, err := s.Scan(context.Background(), Filter{Method: contracts.MethodMaxMax, HoldingPeriods: []int{1}})
		require.NoError(t, err)
		require.Len(t, result.Rows, 2)
		assert.Equal(t, "TIE1", result.Rows[0].Ticker)
		assert.Equal(t, "TIE2", result.Rows[1].Ticker)
	}
}

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "empty", filter: Filter{}},
		{name: "valid", filter: Filter{HoldingPeriods: []int{1, 12}, Months: []int{1, 6}, Limit: 50}},
		{name: "bad period", filter: Filter{HoldingPeriods: []int{5}}, wantErr: true},
		{name: "bad month", filter: Filter{Months: []int{13}}, wantErr: true},
		{name: "negative limit", filter: Filter{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
