package seasonality

import (
	"math"

	"github.com/stockresearcher/backend/internal/contracts"
)

// AggregateByMonth groups cells by calendar month across years and reduces
// each group into count / win rate / average / extremes. Months without
// cells are simply absent from the map, so "no data" stays distinct from
// "zero return".
func AggregateByMonth(cells []contracts.ReturnCell) map[int]contracts.MonthAggregate {
	byMonth := make(map[int][]contracts.ReturnCell)
	for _, c := range cells {
		byMonth[c.Month] = append(byMonth[c.Month], c)
	}

	aggregates := make(map[int]contracts.MonthAggregate, len(byMonth))
	for month, group := range byMonth {
		var sum float64
		wins := 0
		min := math.Inf(1)
		max := math.Inf(-1)
		for _, c := range group {
			sum += c.ReturnPct
			if c.ReturnPct > 0 {
				wins++
			}
			if c.ReturnPct < min {
				min = c.ReturnPct
			}
			if c.ReturnPct > max {
				max = c.ReturnPct
			}
		}

		count := len(group)
		aggregates[month] = contracts.MonthAggregate{
			Month:     month,
			Count:     count,
			WinRate:   int(math.Round(100 * float64(wins) / float64(count))),
			AvgReturn: round2(sum / float64(count)),
			MinReturn: round2(min),
			MaxReturn: round2(max),
		}
	}
	return aggregates
}

// MonthReturns collects each month's yearly return series, tracking the
// originating year alongside the value for outlier attribution.
func MonthReturns(cells []contracts.ReturnCell) map[int][]YearValue {
	byMonth := make(map[int][]YearValue)
	for _, c := range cells {
		byMonth[c.Month] = append(byMonth[c.Month], YearValue{Year: c.Year, Value: c.ReturnPct})
	}
	return byMonth
}
