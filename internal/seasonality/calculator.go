// Package seasonality turns monthly price aggregates into historical
// seasonality statistics: simulated per-year trade returns, per-month
// summary aggregates, benchmark alpha and robustness signals.
package seasonality

import (
	"fmt"
	"math"

	"github.com/stockresearcher/backend/internal/contracts"
)

// monthKey indexes a price record by (year, month).
type monthKey struct {
	year  int
	month int
}

// ComputeCells simulates one trade per anchor month: enter at the anchor,
// exit holdingPeriod months later, using prices picked by method. Anchors
// whose target month is missing, or whose entry/exit price is unavailable
// or zero, are silently skipped; incomplete tail periods are expected.
//
// Cells come back filed under their entry month. Rekey applies the exit
// view afterwards, so new view modes never touch the return math. Output
// order follows the input record order; aggregation downstream is
// order-independent.
func ComputeCells(prices []contracts.MonthlyPrice, holdingPeriod int, method contracts.CalculationMethod) []contracts.ReturnCell {
	index := make(map[monthKey]*contracts.MonthlyPrice, len(prices))
	for i := range prices {
		p := &prices[i]
		index[monthKey{p.Year, p.Month}] = p
	}

	cells := make([]contracts.ReturnCell, 0, len(prices))
	for i := range prices {
		anchor := &prices[i]

		targetYear, targetMonth := addMonths(anchor.Year, anchor.Month, holdingPeriod)
		target, ok := index[monthKey{targetYear, targetMonth}]
		if !ok {
			continue
		}

		var entry, exit float64
		switch method {
		case contracts.MethodOpenClose:
			entry = anchor.EntryOpen()
			exit = target.ExitClose()
		default: // MethodMaxMax
			entry = anchor.CloseMax
			exit = target.CloseMax
		}
		if entry == 0 || exit == 0 {
			continue
		}

		cells = append(cells, contracts.ReturnCell{
			Year:       anchor.Year,
			Month:      anchor.Month,
			EntryPrice: round2(entry),
			ExitPrice:  round2(exit),
			ReturnPct:  round2((exit - entry) / entry * 100),
			EntryDate:  fmt.Sprintf("%04d-%02d", anchor.Year, anchor.Month),
			ExitDate:   fmt.Sprintf("%04d-%02d", targetYear, targetMonth),
		})
	}
	return cells
}

// Rekey relabels cells under their exit month when mode is ViewExit.
// Entry-keyed cells pass through untouched.
func Rekey(cells []contracts.ReturnCell, holdingPeriod int, mode contracts.ViewMode) []contracts.ReturnCell {
	if mode != contracts.ViewExit {
		return cells
	}
	rekeyed := make([]contracts.ReturnCell, len(cells))
	for i, c := range cells {
		c.Year, c.Month = addMonths(c.Year, c.Month, holdingPeriod)
		rekeyed[i] = c
	}
	return rekeyed
}

// addMonths advances a (year, month) pair with year carry.
func addMonths(year, month, n int) (int, int) {
	month += n
	for month > 12 {
		month -= 12
		year++
	}
	return year, month
}

// round2 rounds to 2 decimals. Values are rounded exactly once, at the
// point they are produced, and never re-rounded downstream.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
