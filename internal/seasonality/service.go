package seasonality

import (
	"context"
	"fmt"
	"time"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/pkg/logger"
)

// HeatmapQuery identifies one heatmap computation.
type HeatmapQuery struct {
	Ticker        string
	HoldingPeriod int
	Method        contracts.CalculationMethod
	ViewMode      contracts.ViewMode
	YearsBack     int
}

// Validate rejects unsupported parameter combinations at the edge.
func (q *HeatmapQuery) Validate() error {
	if q.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if !contracts.ValidHoldingPeriod(q.HoldingPeriod) {
		return fmt.Errorf("invalid holding period %d (want one of %v)", q.HoldingPeriod, contracts.HoldingPeriods)
	}
	if q.YearsBack <= 0 {
		return fmt.Errorf("yearsBack must be positive")
	}
	return nil
}

// HeatmapResult is one complete, internally consistent heatmap: the raw
// cells plus per-month aggregates and robustness stats. All of it is
// recomputed fresh from the immutable price records on every read.
type HeatmapResult struct {
	Ticker      string                            `json:"ticker"`
	Cells       []contracts.ReturnCell            `json:"cells"`
	Aggregates  map[int]contracts.MonthAggregate  `json:"aggregates"`
	Stats       map[int]contracts.MonthStats      `json:"stats"`
	LastUpdated time.Time                         `json:"lastUpdated"`
}

// Service orchestrates the engine: prices in, heatmap out. Computation is
// pure and per-ticker independent; concurrent queries need no coordination.
type Service struct {
	prices    contracts.MonthlyPriceRepository
	benchmark *Benchmark
	logger    *logger.Logger
}

// NewService creates the seasonality service.
func NewService(prices contracts.MonthlyPriceRepository, benchmark *Benchmark, log *logger.Logger) *Service {
	return &Service{
		prices:    prices,
		benchmark: benchmark,
		logger:    log,
	}
}

// Heatmap computes the full seasonality view for one ticker. Returns
// *contracts.NoDataError when the ticker has zero qualifying history;
// repository failures propagate untouched.
func (s *Service) Heatmap(ctx context.Context, q HeatmapQuery) (*HeatmapResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	prices, err := s.prices.MonthlyPrices(ctx, q.Ticker, q.YearsBack)
	if err != nil {
		return nil, fmt.Errorf("monthly prices for %s: %w", q.Ticker, err)
	}

	cells := Rekey(ComputeCells(prices, q.HoldingPeriod, q.Method), q.HoldingPeriod, q.ViewMode)
	if len(cells) == 0 {
		return nil, &contracts.NoDataError{Ticker: q.Ticker}
	}

	aggregates := AggregateByMonth(cells)

	baseline, err := s.benchmark.MonthlyAverages(ctx, q.HoldingPeriod, q.Method, q.YearsBack)
	if err != nil {
		return nil, err
	}
	ApplyAlpha(aggregates, baseline, q.HoldingPeriod, q.Method)

	stats := make(map[int]contracts.MonthStats, len(aggregates))
	for month, samples := range MonthReturns(cells) {
		stats[month] = contracts.MonthStats{
			TrimmedMean: TrimmedMean(values(samples)),
			Outlier:     DetectOutlier(samples),
		}
	}

	lastUpdated, err := s.prices.LastUpdated(ctx, q.Ticker)
	if err != nil {
		return nil, fmt.Errorf("last updated for %s: %w", q.Ticker, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": q.Ticker,
		"period": q.HoldingPeriod,
		"method": q.Method,
		"view":   q.ViewMode,
		"cells":  len(cells),
	}).Debug("Heatmap computed")

	return &HeatmapResult{
		Ticker:      q.Ticker,
		Cells:       cells,
		Aggregates:  aggregates,
		Stats:       stats,
		LastUpdated: lastUpdated,
	}, nil
}
