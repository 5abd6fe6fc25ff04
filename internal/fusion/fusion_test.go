package fusion

import (
	"reflect"
	"testing"

	"smartinvest/internal/types"
)

func sentimentAgg(overall float64) *types.SentimentAggregate {
	return &types.SentimentAggregate{OverallSentiment: overall}
}

func TestPriceMomentum(t *testing.T) {
	if PriceMomentum(0.01) != MomentumBullish {
		t.Error("Expected bullish for positive change")
	}
	// Zero change labels bearish: the bands are "> 0" on the bull side.
	if PriceMomentum(0) != MomentumBearish {
		t.Error("Expected bearish for zero change")
	}
	if PriceMomentum(-3) != MomentumBearish {
		t.Error("Expected bearish for negative change")
	}
}

func TestDiscretize(t *testing.T) {
	cases := []struct {
		in   float64
		want SentimentSignal
	}{
		{0.5, SentimentPositive},
		{0.11, SentimentPositive},
		{0.1, SentimentNeutral},
		{0, SentimentNeutral},
		{-0.1, SentimentNeutral},
		{-0.11, SentimentNegative},
	}
	for _, c := range cases {
		if got := Discretize(c.in); got != c.want {
			t.Errorf("Discretize(%f) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestFusePriceOnly(t *testing.T) {
	cases := []struct {
		change   float64
		wantRec  string
		wantConf float64
	}{
		{6, StrongBuy, 0.6},
		{3, Buy, 0.3},
		{0, Hold, 0},
		{-3, Sell, 0.3},
		{-6, StrongSell, 0.6},
		{15, StrongBuy, 1.0}, // confidence capped
	}
	for _, c := range cases {
		got := Fuse(Signals{ChangePercent: c.change})
		if got.Recommendation != c.wantRec {
			t.Errorf("change %f: expected %s, got %s", c.change, c.wantRec, got.Recommendation)
		}
		if got.Confidence != c.wantConf {
			t.Errorf("change %f: expected confidence %f, got %f", c.change, c.wantConf, got.Confidence)
		}
	}
}

func TestFuseTwoSignalMatrix(t *testing.T) {
	cases := []struct {
		change    float64
		sentiment float64
		wantRec   string
		wantConf  float64
	}{
		{2, 0.5, StrongBuy, 0.9},
		{-2, -0.5, StrongSell, 0.9},
		{2, 0, Buy, 0.7},
		{-2, 0, Sell, 0.7},
		{-2, 0.5, HoldConflicting, 0.5},
		{2, -0.5, HoldConflicting, 0.5},
	}
	for _, c := range cases {
		got := Fuse(Signals{ChangePercent: c.change, Sentiment: sentimentAgg(c.sentiment)})
		if got.Recommendation != c.wantRec {
			t.Errorf("(%f, %f): expected %s, got %s", c.change, c.sentiment, c.wantRec, got.Recommendation)
		}
		if got.Confidence != c.wantConf {
			t.Errorf("(%f, %f): expected confidence %f, got %f", c.change, c.sentiment, c.wantConf, got.Confidence)
		}
	}
}

func TestFuseWeightedAllBullish(t *testing.T) {
	got := Fuse(Signals{
		ChangePercent: 1.5,
		Sentiment:     sentimentAgg(0.6),
		Valuation:     &types.ValuationSummary{Assessment: types.Undervalued},
		LongTermTrend: types.TrendBullish,
	})

	if got.Score != 5 {
		t.Errorf("Expected score 5, got %d", got.Score)
	}
	if got.Recommendation != StrongBuy || got.Confidence != 0.95 {
		t.Errorf("Expected Strong Buy at 0.95, got %s at %f", got.Recommendation, got.Confidence)
	}

	wantFactors := []string{
		"Positive price momentum",
		"Positive market sentiment",
		"Fundamentally undervalued",
		"Strong long-term trend",
	}
	if !reflect.DeepEqual(got.Factors, wantFactors) {
		t.Errorf("Factor order mismatch: %v", got.Factors)
	}
}

func TestFuseWeightedAllBearish(t *testing.T) {
	got := Fuse(Signals{
		ChangePercent: -1.5,
		Sentiment:     sentimentAgg(-0.6),
		Valuation:     &types.ValuationSummary{Assessment: types.Overvalued},
		LongTermTrend: types.TrendBearish,
	})

	if got.Score != -5 {
		t.Errorf("Expected score -5, got %d", got.Score)
	}
	if got.Recommendation != StrongSell || got.Confidence != 0.95 {
		t.Errorf("Expected Strong Sell at 0.95, got %s at %f", got.Recommendation, got.Confidence)
	}
}

func TestFuseWeightedValuationDominates(t *testing.T) {
	// Valuation carries double weight: bearish momentum plus neutral
	// sentiment and trend still nets +1 when undervalued.
	got := Fuse(Signals{
		ChangePercent: -1,
		Sentiment:     sentimentAgg(0),
		Valuation:     &types.ValuationSummary{Assessment: types.Undervalued},
		LongTermTrend: types.TrendNeutral,
	})

	if got.Score != 1 {
		t.Errorf("Expected score 1, got %d", got.Score)
	}
	if got.Recommendation != Buy || got.Confidence != 0.80 {
		t.Errorf("Expected Buy at 0.80, got %s at %f", got.Recommendation, got.Confidence)
	}
}

func TestFuseWeightedHoldBand(t *testing.T) {
	// +1 momentum, -1 sentiment: net zero lands in the hold band.
	got := Fuse(Signals{
		ChangePercent: 1,
		Sentiment:     sentimentAgg(-0.6),
		Valuation:     &types.ValuationSummary{Assessment: types.FairlyValued},
		LongTermTrend: types.TrendNeutral,
	})

	if got.Score != 0 {
		t.Errorf("Expected score 0, got %d", got.Score)
	}
	if got.Recommendation != Hold || got.Confidence != 0.60 {
		t.Errorf("Expected Hold at 0.60, got %s at %f", got.Recommendation, got.Confidence)
	}
}

func TestFusePolicySelection(t *testing.T) {
	// Missing trend demotes to the two-signal matrix even when the
	// valuation is present.
	got := Fuse(Signals{
		ChangePercent: 2,
		Sentiment:     sentimentAgg(0.5),
		Valuation:     &types.ValuationSummary{Assessment: types.Undervalued},
	})
	if got.Recommendation != StrongBuy || got.Confidence != 0.9 {
		t.Errorf("Expected two-signal Strong Buy at 0.9, got %s at %f", got.Recommendation, got.Confidence)
	}

	// No sentiment demotes to the price-only baseline.
	got = Fuse(Signals{
		ChangePercent: 3,
		Valuation:     &types.ValuationSummary{Assessment: types.Undervalued},
		LongTermTrend: types.TrendBullish,
	})
	if got.Recommendation != Buy || got.Confidence != 0.3 {
		t.Errorf("Expected price-only Buy at 0.3, got %s at %f", got.Recommendation, got.Confidence)
	}
}

func TestFuseDeterministic(t *testing.T) {
	s := Signals{
		ChangePercent: 1.2,
		Sentiment:     sentimentAgg(0.3),
		Valuation:     &types.ValuationSummary{Assessment: types.Undervalued},
		LongTermTrend: types.TrendBullish,
	}
	first := Fuse(s)
	second := Fuse(s)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical signals")
	}
}
