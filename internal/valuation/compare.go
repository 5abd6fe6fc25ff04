package valuation

import (
	"sort"

	"smartinvest/internal/types"
)

// MetricStanding places one disclosed ratio against the peer group.
type MetricStanding struct {
	Value            float64 `json:"value"`
	SectorPercentile float64 `json:"sector_percentile"`
	SectorAverage    float64 `json:"sector_average"`
}

// SectorComparison ranks a target symbol's ratios inside its peer set.
type SectorComparison struct {
	TargetSymbol        string                    `json:"target_symbol"`
	Peers               []string                  `json:"peers"`
	RelativePerformance map[string]MetricStanding `json:"relative_performance"`
}

// comparisonMetrics are the ratios ranked against the peer group.
var comparisonMetrics = map[string]func(types.Fundamentals) *float64{
	"trailing_pe":      func(f types.Fundamentals) *float64 { return f.TrailingPE },
	"price_to_book":    func(f types.Fundamentals) *float64 { return f.PriceToBook },
	"return_on_equity": func(f types.Fundamentals) *float64 { return f.ReturnOnEquity },
	"profit_margins":   func(f types.Fundamentals) *float64 { return f.ProfitMargins },
}

// Compare ranks the target's disclosed ratios against the peer group.
// A metric enters the result only when the target discloses it and at
// least two group members do; undisclosed ratios are skipped, never
// treated as zero.
func Compare(target string, peers []string, group map[string]types.Fundamentals) SectorComparison {
	out := SectorComparison{
		TargetSymbol:        target,
		Peers:               peers,
		RelativePerformance: map[string]MetricStanding{},
	}

	for name, pick := range comparisonMetrics {
		targetVal := pick(group[target])
		if targetVal == nil {
			continue
		}

		values := make([]float64, 0, len(group))
		for _, f := range group {
			if v := pick(f); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) < 2 {
			continue
		}

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		out.RelativePerformance[name] = MetricStanding{
			Value:            *targetVal,
			SectorPercentile: percentile(*targetVal, values),
			SectorAverage:    sum / float64(len(values)),
		}
	}
	return out
}

// percentile is the fraction of group values at or below the target,
// as a percentage.
func percentile(value float64, values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := 0
	for _, v := range sorted {
		if v <= value {
			rank++
		}
	}
	return float64(rank) / float64(len(sorted)) * 100
}
