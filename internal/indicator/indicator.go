// Package indicator builds technical snapshots from historical price
// series. All computations are pure; two calls on the same series
// yield identical snapshots.
package indicator

import (
	"fmt"
	"math"

	"smartinvest/internal/ta"
	"smartinvest/internal/types"
)

// RSIPeriod is the trailing window for the RSI oscillator.
const RSIPeriod = 14

// VolumeWindow is the averaging window for volume statistics.
const VolumeWindow = 20

// smaWindows are the short/medium/long trend windows, in bars.
var smaWindows = [3]int{20, 50, 200}

// Snapshot computes the full technical snapshot for a chronological
// price series. Short series never produce an error: each field that
// cannot be computed is absent instead. The returned error marks an
// unexpected computation fault, in which case the whole snapshot is
// unusable rather than partially filled.
func Snapshot(bars []types.PriceBar) (snap types.TechnicalSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = types.TechnicalSnapshot{}
			err = fmt.Errorf("could not calculate technical indicators: %v", r)
		}
	}()

	snap.BarsAnalyzed = len(bars)
	snap.Trends = types.TrendSignals{
		ShortTerm:  types.TrendNeutral,
		MediumTerm: types.TrendNeutral,
		LongTerm:   types.TrendNeutral,
	}
	if len(bars) == 0 {
		return snap, nil
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}
	latest := bars[len(bars)-1]

	snap.MovingAverages = types.MovingAverages{
		SMA20:  finite(ta.SMA(closes, smaWindows[0])),
		SMA50:  finite(ta.SMA(closes, smaWindows[1])),
		SMA200: finite(ta.SMA(closes, smaWindows[2])),
	}

	snap.Momentum.RSI = finite(ta.RSI(closes, RSIPeriod))
	line, signal, hist := ta.MACD(closes)
	snap.Momentum.MACD = types.MACD{
		Line:      finite(line),
		Signal:    finite(signal),
		Histogram: finite(hist),
	}

	snap.Volume = volumeStats(volumes, float64(latest.Volume))

	snap.Trends.ShortTerm = trendLabel(latest.Close, snap.MovingAverages.SMA20)
	snap.Trends.MediumTerm = trendLabel(latest.Close, snap.MovingAverages.SMA50)
	snap.Trends.LongTerm = trendLabel(latest.Close, snap.MovingAverages.SMA200)

	return snap, nil
}

func volumeStats(volumes []float64, latest float64) types.VolumeStats {
	stats := types.VolumeStats{Latest: latest}
	avg := ta.SMA(volumes, VolumeWindow)
	stats.Avg20 = finite(avg)
	if stats.Avg20 != nil && avg > 0 {
		stats.Ratio = types.Float(latest / avg)
	}
	return stats
}

// trendLabel is neutral when the SMA itself is absent; otherwise it
// compares the latest close against it. No hysteresis across calls.
func trendLabel(close float64, sma *float64) types.Trend {
	if sma == nil {
		return types.TrendNeutral
	}
	if close > *sma {
		return types.TrendBullish
	}
	return types.TrendBearish
}

// finite maps NaN/Inf to absent.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
