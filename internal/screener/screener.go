package screener

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/logger"
)

// Filter defines the server-side screening stages, applied before scoring
// in this order: win rate, per-month average, years of data, holding-period
// allow-list, calendar-month allow-list. The per-ticker sentiment filter is
// a client-side concern and intentionally absent here.
type Filter struct {
	MinWinRate     int
	MinAvgPerMonth float64
	MinYears       int
	HoldingPeriods []int
	Months         []int
	Method         contracts.CalculationMethod
	Limit          int
}

// Validate rejects unsupported filter parameters.
func (f *Filter) Validate() error {
	for _, p := range f.HoldingPeriods {
		if !contracts.ValidHoldingPeriod(p) {
			return fmt.Errorf("invalid holding period %d (want one of %v)", p, contracts.HoldingPeriods)
		}
	}
	for _, m := range f.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("invalid month %d", m)
		}
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// periods returns the holding-period allow-list, defaulting to all
// supported lengths when none were requested.
func (f *Filter) periods() []int {
	if len(f.HoldingPeriods) == 0 {
		return contracts.HoldingPeriods
	}
	return f.HoldingPeriods
}

// monthAllowed checks the calendar-month allow-list (empty = all months).
func (f *Filter) monthAllowed(month int) bool {
	if len(f.Months) == 0 {
		return true
	}
	for _, m := range f.Months {
		if m == month {
			return true
		}
	}
	return false
}

// Result is one completed screener scan. TotalPatterns counts qualifying
// rows before the limit; TotalStocks counts distinct tickers among them.
type Result struct {
	Rows          []contracts.ScreenerRow `json:"results"`
	TotalPatterns int                     `json:"totalPatterns"`
	TotalStocks   int                     `json:"totalStocks"`
}

// Screener scans the tracked universe for seasonality patterns. Each scan
// is stateless: every row is recomputed fresh from the price records.
type Screener struct {
	stocks    contracts.StockRepository
	prices    contracts.MonthlyPriceRepository
	benchmark *seasonality.Benchmark
	yearsBack int
	logger    *logger.Logger
}

// New creates a screener. yearsBack bounds how much history each pattern
// is computed over.
func New(stocks contracts.StockRepository, prices contracts.MonthlyPriceRepository, benchmark *seasonality.Benchmark, yearsBack int, log *logger.Logger) *Screener {
	return &Screener{
		stocks:    stocks,
		prices:    prices,
		benchmark: benchmark,
		yearsBack: yearsBack,
		logger:    log,
	}
}

// Scan computes every (ticker × entryMonth × holdingPeriod) pattern that
// passes the filter, scores it, and returns the rows sorted by score
// descending (stable for ties), truncated to the limit.
//
// A ticker with no qualifying history is skipped; a repository failure
// aborts the whole scan.
func (s *Screener) Scan(ctx context.Context, filter Filter) (*Result, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	stocks, err := s.stocks.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked stocks: %w", err)
	}

	// One baseline per holding period; shared by every ticker in the scan.
	baselines := make(map[int]map[int]float64, len(filter.periods()))
	for _, period := range filter.periods() {
		baseline, err := s.benchmark.MonthlyAverages(ctx, period, filter.Method, s.yearsBack)
		if err != nil {
			return nil, err
		}
		baselines[period] = baseline
	}

	rows := make([]contracts.ScreenerRow, 0)
	for _, stock := range stocks {
		prices, err := s.prices.MonthlyPrices(ctx, stock.Ticker, s.yearsBack)
		if err != nil {
			return nil, fmt.Errorf("monthly prices for %s: %w", stock.Ticker, err)
		}
		if len(prices) == 0 {
			continue
		}

		for _, period := range filter.periods() {
			rows = append(rows, s.tickerRows(prices, stock.Ticker, period, filter, baselines[period])...)
		}
	}

	// Stable keeps equal scores in universe order, so repeated scans
	// return byte-identical results.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	result := &Result{
		Rows:          rows,
		TotalPatterns: len(rows),
		TotalStocks:   distinctTickers(rows),
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		result.Rows = rows[:filter.Limit]
	}

	s.logger.WithFields(map[string]interface{}{
		"stocks":   len(stocks),
		"patterns": result.TotalPatterns,
		"returned": len(result.Rows),
	}).Info("Screener scan completed")

	return result, nil
}

// tickerRows builds the qualifying rows for one ticker and holding period.
// Screener rows always use the entry view: the question is when to buy.
func (s *Screener) tickerRows(prices []contracts.MonthlyPrice, ticker string, period int, filter Filter, baseline map[int]float64) []contracts.ScreenerRow {
	cells := seasonality.ComputeCells(prices, period, filter.Method)
	if len(cells) == 0 {
		return nil
	}

	aggregates := seasonality.AggregateByMonth(cells)
	returns := seasonality.MonthReturns(cells)
	months := float64(filter.Method.HoldingMonths(period))

	rows := make([]contracts.ScreenerRow, 0, len(aggregates))
	for month, agg := range aggregates {
		if agg.WinRate < filter.MinWinRate {
			continue
		}

		// The trimmed mean is the authoritative average: the same figure
		// shown to users is the one filtered and scored on.
		avgReturn := seasonality.TrimmedMean(yearValues(returns[month]))
		rawPerMonth := avgReturn / months
		avgPerMonth := round2(rawPerMonth)
		if avgPerMonth < filter.MinAvgPerMonth {
			continue
		}
		if agg.Count < filter.MinYears {
			continue
		}
		if !filter.monthAllowed(month) {
			continue
		}

		// Alpha rounds once from the raw ratios, matching ApplyAlpha.
		rawMarket := baseline[month] / months
		rows = append(rows, contracts.ScreenerRow{
			Ticker:         ticker,
			EntryMonth:     month,
			HoldingPeriod:  period,
			AvgReturn:      avgReturn,
			AvgPerMonth:    avgPerMonth,
			WinRate:        agg.WinRate,
			Count:          agg.Count,
			MinReturn:      agg.MinReturn,
			MaxReturn:      agg.MaxReturn,
			Alpha:          round2(rawPerMonth - rawMarket),
			MarketPerMonth: round2(rawMarket),
			Score:          Score(agg.WinRate, avgPerMonth, agg.Count),
		})
	}
	return rows
}

func distinctTickers(rows []contracts.ScreenerRow) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.Ticker] = struct{}{}
	}
	return len(seen)
}

func yearValues(samples []seasonality.YearValue) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
