// Package screener ranks and filters seasonality patterns across the
// tracked-ticker universe.
package screener

import "math"

// Score is the composite ranking scalar: (winRate/100) × avgPerMonth ×
// sqrt(count). High win rate and high average return multiply; sample
// depth contributes sub-linearly so long histories help without
// dominating. Always derived, never persisted, and recomputed the same
// way at every sort or filter site.
func Score(winRate int, avgPerMonth float64, count int) float64 {
	return float64(winRate) / 100 * avgPerMonth * math.Sqrt(float64(count))
}
