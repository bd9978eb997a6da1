package seasonality

import "github.com/stockresearcher/backend/internal/contracts"

// ApplyAlpha fills Alpha and MarketReturn on each aggregate from the
// benchmark baseline. Both sides are normalized to a per-month figure
// first, so a +1% alpha means "beat the benchmark by one point per month
// held" regardless of the holding-period length.
//
// A month without a benchmark baseline gets marketReturn 0 and alpha
// equal to the ticker's own per-month return.
func ApplyAlpha(aggregates map[int]contracts.MonthAggregate, benchmark map[int]float64, holdingPeriod int, method contracts.CalculationMethod) {
	months := float64(method.HoldingMonths(holdingPeriod))
	for month, agg := range aggregates {
		avgPerMonth := agg.AvgReturn / months
		marketPerMonth := benchmark[month] / months

		agg.MarketReturn = benchmark[month]
		agg.Alpha = round2(avgPerMonth - marketPerMonth)
		aggregates[month] = agg
	}
}
