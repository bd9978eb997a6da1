package seasonality

import (
	"math"
	"sort"

	"github.com/stockresearcher/backend/internal/contracts"
)

// YearValue is one yearly observation within a month's return series.
type YearValue struct {
	Year  int
	Value float64
}

// minOutlierSamples is the smallest series the detector will judge;
// below this, a "top value" is just a small sample, not an outlier.
const minOutlierSamples = 4

// DetectOutlier flags a statistically and magnitude-extreme top year
// within one month's return series. Both gates must clear at the same
// time: the magnitude gate alone would flag any big year in a volatile
// series, the z-score gate alone would miss spikes whose ratio looks
// modest only because the baseline is high.
//
// Only upside spikes are flagged; they are what distorts the average
// upward in ways worth warning about.
func DetectOutlier(samples []YearValue) contracts.OutlierInfo {
	none := contracts.OutlierInfo{Severity: contracts.SeverityNone}
	if len(samples) < minOutlierSamples {
		return none
	}

	sorted := make([]YearValue, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	top := sorted[0]
	if top.Value <= 0 {
		return none
	}

	// Drop the top 2 values so a second large year cannot hide the first.
	rest := sorted[2:]
	avgOthers := mean(values(rest))
	std := stdDev(values(rest), avgOthers)

	zScore := 0.0
	if std > 0 {
		zScore = (top.Value - avgOthers) / std
	}

	info := contracts.OutlierInfo{
		Severity:  contracts.SeverityNone,
		TopValue:  top.Value,
		TopYear:   top.Year,
		AvgOthers: avgOthers,
		ZScore:    zScore,
	}

	diff := top.Value - avgOthers
	if avgOthers > 0 {
		// Positive baseline: the ratio against it carries the signal.
		info.Multiplier = top.Value / avgOthers
		switch {
		case info.Multiplier >= 10 && zScore >= 3:
			info.Severity = contracts.SeveritySevere
		case info.Multiplier >= 7 && zScore >= 2.5:
			info.Severity = contracts.SeverityHigh
		case info.Multiplier >= 5 && zScore >= 2:
			info.Severity = contracts.SeverityModerate
		}
	} else {
		// Flat or negative baseline has no meaningful ratio; gate on
		// absolute distance instead.
		switch {
		case diff >= 100 && zScore >= 4:
			info.Severity = contracts.SeveritySevere
		case diff >= 70 && zScore >= 3.5:
			info.Severity = contracts.SeverityHigh
		}
	}

	info.HasOutlier = info.Severity != contracts.SeverityNone
	return info
}

// minTrimSamples is the smallest series where discarding the 2 highest
// and 2 lowest years still leaves something to average.
const minTrimSamples = 5

// TrimmedMean is the authoritative robust average: the mean after
// dropping the 2 lowest and 2 highest yearly observations. Series too
// short to trim fall back to the plain mean. Result is rounded to 2
// decimals at production.
func TrimmedMean(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	if len(returns) < minTrimSamples {
		return round2(mean(returns))
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	return round2(mean(sorted[2 : len(sorted)-2]))
}

func values(samples []YearValue) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stdDev is the population standard deviation around a precomputed mean.
func stdDev(vs []float64, mean float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)))
}
