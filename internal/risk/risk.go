// Package risk computes volatility and drawdown metrics from a price
// series and classifies them into a risk tier.
package risk

import (
	"math"

	"smartinvest/internal/ta"
	"smartinvest/internal/types"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Snapshot computes the risk metrics for a chronological price series.
// Fewer than 2 bars yields an all-absent snapshot with tier "unknown";
// it never fails.
//
// Beta is a fixed 1.0 placeholder: no market-index series is supplied,
// so no correlation is computed.
func Snapshot(bars []types.PriceBar) types.RiskSnapshot {
	snap := types.RiskSnapshot{Beta: 1.0, Tier: types.RiskUnknown}

	returns := dailyReturns(bars)
	if len(returns) == 0 {
		return snap
	}

	if sd := ta.StdDev(returns); !math.IsNaN(sd) {
		vol := sd * math.Sqrt(tradingDaysPerYear)
		snap.Volatility = &vol
		snap.Tier = Classify(vol)
	}

	if dd := maxDrawdown(returns); !math.IsNaN(dd) {
		snap.MaxDrawdown = &dd
	}

	return snap
}

// dailyReturns is close_t/close_{t-1} - 1 for t >= 1. Bars with a zero
// previous close are skipped to avoid division faults.
func dailyReturns(bars []types.PriceBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, bars[i].Close/prev-1.0)
	}
	return returns
}

// maxDrawdown tracks the cumulative product of (1+r) against its
// running maximum and reports the most negative peak-to-trough decline.
func maxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	cum := 1.0
	peak := math.Inf(-1)
	worst := 0.0
	for _, r := range returns {
		cum *= 1.0 + r
		if cum > peak {
			peak = cum
		}
		if peak != 0 {
			dd := (cum - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// Classify maps annualized volatility to a tier.
func Classify(vol float64) types.RiskTier {
	switch {
	case math.IsNaN(vol):
		return types.RiskUnknown
	case vol < 0.15:
		return types.RiskLow
	case vol < 0.25:
		return types.RiskMedium
	case vol < 0.40:
		return types.RiskHigh
	default:
		return types.RiskVeryHigh
	}
}
