package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}

	got := SMA(vals, 5)
	if got != 3.0 {
		t.Errorf("Expected SMA 3.0, got %f", got)
	}

	got = SMA(vals, 2)
	if got != 4.5 {
		t.Errorf("Expected SMA of last 2 to be 4.5, got %f", got)
	}

	if !math.IsNaN(SMA(vals, 6)) {
		t.Error("Expected NaN for window longer than series")
	}
	if !math.IsNaN(SMA(nil, 1)) {
		t.Error("Expected NaN for empty series")
	}
}

func TestEMASeries(t *testing.T) {
	vals := []float64{10, 20, 30}
	series := EMASeries(vals, 3) // alpha = 0.5

	if len(series) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(series))
	}
	if series[0] != 10 {
		t.Errorf("Expected seed from first value, got %f", series[0])
	}
	if series[1] != 15 {
		t.Errorf("Expected 15, got %f", series[1])
	}
	if series[2] != 22.5 {
		t.Errorf("Expected 22.5, got %f", series[2])
	}
}

func TestEMAShortSeriesStillEmits(t *testing.T) {
	// A single bar is low-confidence but still produces a value.
	got := EMA([]float64{42}, 12)
	if got != 42 {
		t.Errorf("Expected 42, got %f", got)
	}
	if !math.IsNaN(EMA(nil, 12)) {
		t.Error("Expected NaN for empty series")
	}
}

func TestRSIZeroLoss(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}

	got := RSI(closes, 14)
	if got != 100.0 {
		t.Errorf("Expected RSI 100 on a loss-free window, got %f", got)
	}
}

func TestRSIRange(t *testing.T) {
	closes := []float64{100, 102, 101, 103, 102, 104, 103, 105, 104, 106, 105, 107, 106, 108, 107}

	got := RSI(closes, 14)
	if got <= 0 || got >= 100 {
		t.Errorf("Expected RSI in (0, 100), got %f", got)
	}
	if got <= 50 {
		t.Errorf("Expected RSI above 50 for a rising series, got %f", got)
	}
}

func TestRSIInsufficientData(t *testing.T) {
	if !math.IsNaN(RSI([]float64{1, 2, 3}, 14)) {
		t.Error("Expected NaN for series shorter than period+1")
	}
}

func TestMACDHistogramConsistency(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}

	line, signal, hist := MACD(closes)
	if math.IsNaN(line) || math.IsNaN(signal) || math.IsNaN(hist) {
		t.Fatal("Expected finite MACD outputs")
	}
	if math.Abs(hist-(line-signal)) > 1e-12 {
		t.Errorf("Expected histogram = line - signal, got %f vs %f", hist, line-signal)
	}
}

func TestMACDConstantSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 250
	}

	line, signal, hist := MACD(closes)
	if line != 0 || signal != 0 || hist != 0 {
		t.Errorf("Expected zero MACD on a flat series, got %f/%f/%f", line, signal, hist)
	}
}

func TestStdDev(t *testing.T) {
	// Sample std dev of {2,4,4,4,5,5,7,9} is ~2.138.
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(vals)
	if math.Abs(got-2.1380899353) > 1e-6 {
		t.Errorf("Expected ~2.138, got %f", got)
	}

	if !math.IsNaN(StdDev([]float64{1})) {
		t.Error("Expected NaN for fewer than 2 values")
	}
}
