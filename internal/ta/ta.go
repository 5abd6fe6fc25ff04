// Package ta holds the scalar indicator primitives. Unavailable values
// are NaN; the snapshot layer maps NaN to absent.
package ta

import "math"

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMA computes the exponential moving average with span s over the full
// series, seeded from the first value. It emits a value for any
// non-empty series; series shorter than s are low-confidence but the
// value is not hidden.
func EMA(vals []float64, s int) float64 {
	series := EMASeries(vals, s)
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

// EMASeries returns the running EMA at every bar, smoothing factor
// alpha = 2/(s+1).
func EMASeries(vals []float64, s int) []float64 {
	if len(vals) == 0 || s <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(s) + 1.0)
	out := make([]float64, len(vals))
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1.0-alpha)*out[i-1]
	}
	return out
}

// RSI uses a simple trailing mean of the last `period` gains and
// losses, not Wilder's smoothing. Downstream thresholds were tuned
// against this variant; do not swap in the textbook formula.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD returns line, signal and histogram at the latest bar. The
// signal is the EMA(9) of the full EMA12-EMA26 difference series.
func MACD(closes []float64) (line, signal, histogram float64) {
	if len(closes) == 0 {
		nan := math.NaN()
		return nan, nan, nan
	}
	fast := EMASeries(closes, 12)
	slow := EMASeries(closes, 26)
	diff := make([]float64, len(closes))
	for i := range closes {
		diff[i] = fast[i] - slow[i]
	}
	line = diff[len(diff)-1]
	signal = EMA(diff, 9)
	histogram = line - signal
	return line, signal, histogram
}

func StdDev(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(n)
	s := 0.0
	for _, v := range vals {
		d := v - mean
		s += d * d
	}
	return math.Sqrt(s / float64(n-1))
}
