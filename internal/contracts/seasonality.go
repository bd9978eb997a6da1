package contracts

import (
	"errors"
	"fmt"
)

// CalculationMethod selects how entry and exit prices are taken from the
// monthly aggregates.
type CalculationMethod string

const (
	// MethodOpenClose buys at the first-day open of the entry month and
	// sells at the last-day close of the target month, so the position is
	// effectively held one calendar month longer than the nominal period.
	MethodOpenClose CalculationMethod = "openClose"

	// MethodMaxMax compares the monthly close maxima of the entry and
	// target months.
	MethodMaxMax CalculationMethod = "maxMax"
)

// ParseCalculationMethod validates a method string from the API/CLI edge.
func ParseCalculationMethod(s string) (CalculationMethod, error) {
	switch CalculationMethod(s) {
	case MethodOpenClose, MethodMaxMax:
		return CalculationMethod(s), nil
	}
	return "", fmt.Errorf("invalid calculation method %q (want openClose or maxMax)", s)
}

// HoldingMonths returns the actual number of calendar months a simulated
// position spans for the nominal holding period.
func (m CalculationMethod) HoldingMonths(holdingPeriod int) int {
	if m == MethodOpenClose {
		return holdingPeriod + 1
	}
	return holdingPeriod
}

// ViewMode decides which calendar month a computed return is filed under.
type ViewMode string

const (
	ViewEntry ViewMode = "entry" // when to buy
	ViewExit  ViewMode = "exit"  // when you'd have sold
)

// ParseViewMode validates a view mode string from the API/CLI edge.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewEntry, ViewExit:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("invalid view mode %q (want entry or exit)", s)
}

// HoldingPeriods are the supported nominal holding-period lengths in months.
var HoldingPeriods = []int{1, 3, 6, 12}

// ValidHoldingPeriod reports whether p is a supported holding period.
func ValidHoldingPeriod(p int) bool {
	for _, v := range HoldingPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// ReturnCell is one simulated trade: enter in (Year, Month), exit one
// holding period later. Derived per request, never persisted.
type ReturnCell struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	ReturnPct  float64 `json:"returnPct"`
	EntryDate  string  `json:"entryDate"` // YYYY-MM
	ExitDate   string  `json:"exitDate"`  // YYYY-MM
}

// MonthAggregate summarizes all yearly returns filed under one calendar
// month. Alpha and MarketReturn are filled by the alpha step.
type MonthAggregate struct {
	Month        int     `json:"month"`
	Count        int     `json:"count"`
	WinRate      int     `json:"winRate"` // whole percent
	AvgReturn    float64 `json:"avgReturn"`
	MinReturn    float64 `json:"minReturn"`
	MaxReturn    float64 `json:"maxReturn"`
	Alpha        float64 `json:"alpha"`
	MarketReturn float64 `json:"marketReturn"`
}

// OutlierSeverity grades how badly a single year distorts a month's average.
type OutlierSeverity string

const (
	SeverityNone     OutlierSeverity = "none"
	SeverityModerate OutlierSeverity = "moderate"
	SeverityHigh     OutlierSeverity = "high"
	SeveritySevere   OutlierSeverity = "severe"
)

// OutlierInfo describes the most extreme year within one month's return
// series and the evidence used to flag it.
type OutlierInfo struct {
	HasOutlier bool            `json:"hasOutlier"`
	Severity   OutlierSeverity `json:"severity"`
	TopValue   float64         `json:"topValue"`
	TopYear    int             `json:"topYear"`
	AvgOthers  float64         `json:"avgOthers"`
	Multiplier float64         `json:"multiplier"`
	ZScore     float64         `json:"zScore"`
}

// MonthStats carries the robustness signals derived from one month's
// yearly return series.
type MonthStats struct {
	TrimmedMean float64     `json:"trimmedMean"`
	Outlier     OutlierInfo `json:"outlier"`
}

// ScreenerRow is one (ticker, entryMonth, holdingPeriod) pattern scored
// across the tracked universe. Score is always derived, never persisted.
type ScreenerRow struct {
	Ticker         string  `json:"ticker"`
	EntryMonth     int     `json:"entryMonth"`
	HoldingPeriod  int     `json:"holdingPeriod"`
	AvgReturn      float64 `json:"avgReturn"`
	AvgPerMonth    float64 `json:"avgPerMonth"`
	WinRate        int     `json:"winRate"`
	Count          int     `json:"count"`
	MinReturn      float64 `json:"minReturn"`
	MaxReturn      float64 `json:"maxReturn"`
	Alpha          float64 `json:"alpha"`
	MarketPerMonth float64 `json:"marketPerMonth"`
	Score          float64 `json:"score"`
}

// ErrNoData marks a ticker (or the benchmark basket) with zero qualifying
// history. Surfaced as "not found", never as a server failure.
var ErrNoData = errors.New("no qualifying price history")

// NoDataError wraps ErrNoData with the ticker that had no history.
type NoDataError struct {
	Ticker string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Ticker, ErrNoData)
}

func (e *NoDataError) Unwrap() error { return ErrNoData }
