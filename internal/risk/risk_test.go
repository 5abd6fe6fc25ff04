package risk

import (
	"math"
	"testing"
	"time"

	"smartinvest/internal/types"
)

func bars(closes ...float64) []types.PriceBar {
	out := make([]types.PriceBar, len(closes))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = types.PriceBar{Timestamp: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func TestSnapshotTooFewBars(t *testing.T) {
	for _, series := range [][]types.PriceBar{nil, bars(100)} {
		snap := Snapshot(series)
		if snap.Volatility != nil || snap.MaxDrawdown != nil {
			t.Error("Expected absent metrics for fewer than 2 bars")
		}
		if snap.Tier != types.RiskUnknown {
			t.Errorf("Expected unknown tier, got %s", snap.Tier)
		}
		if snap.Beta != 1.0 {
			t.Errorf("Expected beta placeholder 1.0, got %f", snap.Beta)
		}
	}
}

func TestSnapshotFlatSeries(t *testing.T) {
	snap := Snapshot(bars(100, 100, 100, 100, 100))

	if snap.Volatility == nil || *snap.Volatility != 0 {
		t.Errorf("Expected zero volatility for a flat series, got %v", snap.Volatility)
	}
	if snap.Tier != types.RiskLow {
		t.Errorf("Expected low tier, got %s", snap.Tier)
	}
	if snap.MaxDrawdown == nil || *snap.MaxDrawdown != 0 {
		t.Errorf("Expected zero drawdown, got %v", snap.MaxDrawdown)
	}
}

func TestSnapshotDrawdown(t *testing.T) {
	// Peak at 120, trough at 90: drawdown is -25%.
	snap := Snapshot(bars(100, 120, 90, 95))

	if snap.MaxDrawdown == nil {
		t.Fatal("Expected drawdown metric")
	}
	if math.Abs(*snap.MaxDrawdown-(-0.25)) > 1e-9 {
		t.Errorf("Expected -0.25 drawdown, got %f", *snap.MaxDrawdown)
	}
}

func TestSnapshotSkipsZeroPrevClose(t *testing.T) {
	// The zero close must not produce an infinite return.
	snap := Snapshot(bars(100, 0, 100, 101))
	if snap.Volatility == nil {
		t.Fatal("Expected volatility despite a zero close")
	}
	if math.IsInf(*snap.Volatility, 0) || math.IsNaN(*snap.Volatility) {
		t.Errorf("Expected finite volatility, got %f", *snap.Volatility)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		vol  float64
		want types.RiskTier
	}{
		{0.10, types.RiskLow},
		{0.15, types.RiskMedium},
		{0.20, types.RiskMedium},
		{0.25, types.RiskHigh},
		{0.39, types.RiskHigh},
		{0.40, types.RiskVeryHigh},
		{1.50, types.RiskVeryHigh},
		{math.NaN(), types.RiskUnknown},
	}
	for _, c := range cases {
		if got := Classify(c.vol); got != c.want {
			t.Errorf("Classify(%f) = %s, want %s", c.vol, got, c.want)
		}
	}
}
