package seasonality

import (
	"context"
	"fmt"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// Benchmark pools simulated returns over a fixed basket of broad-market
// proxies and averages them per calendar month, producing the baseline
// that per-ticker aggregates are compared against.
type Benchmark struct {
	repo   contracts.MonthlyPriceRepository
	basket []string
	cache  *redis.Cache
	logger *logger.Logger
}

// NewBenchmark creates a benchmark averager. cache may be backed by a
// disabled client; averages are then recomputed on every request, which
// is acceptable at this data scale.
func NewBenchmark(repo contracts.MonthlyPriceRepository, basket []string, cache *redis.Cache, log *logger.Logger) *Benchmark {
	return &Benchmark{
		repo:   repo,
		basket: basket,
		cache:  cache,
		logger: log,
	}
}

// MonthlyAverages returns the basket's mean return per calendar month for
// one (holdingPeriod, method) combination, always computed in entry view.
//
// Every basket member's yearly returns are pooled into one list per month
// before averaging, so a member with longer history contributes
// proportionally more weight. Months absent from the basket's history are
// absent from the map; alpha for those months is zero downstream.
func (b *Benchmark) MonthlyAverages(ctx context.Context, holdingPeriod int, method contracts.CalculationMethod, yearsBack int) (map[int]float64, error) {
	key := cacheKey(holdingPeriod, method, yearsBack)

	averages := make(map[int]float64)
	if found, err := b.cache.Get(ctx, key, &averages); err == nil && found {
		return averages, nil
	}

	averages, err := b.compute(ctx, holdingPeriod, method, yearsBack)
	if err != nil {
		return nil, err
	}

	if err := b.cache.Set(ctx, key, averages, redis.TTLDaily); err != nil {
		b.logger.WithError(err).Warn("Failed to cache benchmark averages")
	}
	return averages, nil
}

func (b *Benchmark) compute(ctx context.Context, holdingPeriod int, method contracts.CalculationMethod, yearsBack int) (map[int]float64, error) {
	pooled := make(map[int][]float64)
	for _, ticker := range b.basket {
		prices, err := b.repo.MonthlyPrices(ctx, ticker, yearsBack)
		if err != nil {
			return nil, fmt.Errorf("benchmark prices for %s: %w", ticker, err)
		}
		for _, cell := range ComputeCells(prices, holdingPeriod, method) {
			pooled[cell.Month] = append(pooled[cell.Month], cell.ReturnPct)
		}
	}

	if len(pooled) == 0 {
		b.logger.WithFields(map[string]interface{}{
			"basket": b.basket,
			"period": holdingPeriod,
			"method": method,
		}).Warn("Benchmark basket has no qualifying history")
	}

	averages := make(map[int]float64, len(pooled))
	for month, returns := range pooled {
		averages[month] = round2(mean(returns))
	}
	return averages, nil
}

// Refresh recomputes and re-caches the averages for every supported
// (holdingPeriod, method) combination. Run on the ingestion cadence.
func (b *Benchmark) Refresh(ctx context.Context, yearsBack int) error {
	for _, period := range contracts.HoldingPeriods {
		for _, method := range []contracts.CalculationMethod{contracts.MethodOpenClose, contracts.MethodMaxMax} {
			averages, err := b.compute(ctx, period, method, yearsBack)
			if err != nil {
				return fmt.Errorf("refresh benchmark (period=%d method=%s): %w", period, method, err)
			}
			key := cacheKey(period, method, yearsBack)
			if err := b.cache.Set(ctx, key, averages, redis.TTLDaily); err != nil {
				return fmt.Errorf("cache benchmark (period=%d method=%s): %w", period, method, err)
			}
		}
	}
	return nil
}

func cacheKey(holdingPeriod int, method contracts.CalculationMethod, yearsBack int) string {
	return fmt.Sprintf("benchmark:avg:%d:%s:%d", holdingPeriod, method, yearsBack)
}
