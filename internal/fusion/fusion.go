// Package fusion combines independent directional signals into one
// recommendation with a confidence value.
//
// One entry point covers all three policies; the richest applicable
// policy is selected from the signals actually supplied so the
// per-policy logic cannot drift apart across call sites.
package fusion

import (
	"smartinvest/internal/types"
)

// Recommendation labels.
const (
	StrongBuy       = "Strong Buy"
	Buy             = "Buy"
	Hold            = "Hold"
	HoldConflicting = "Hold (Conflicting Signals)"
	Sell            = "Sell"
	StrongSell      = "Strong Sell"
)

// Momentum is the direction of recent price change.
type Momentum string

const (
	MomentumBullish Momentum = "bullish"
	MomentumBearish Momentum = "bearish"
)

// SentimentSignal is the discretized aggregate news sentiment.
type SentimentSignal string

const (
	SentimentPositive SentimentSignal = "positive"
	SentimentNegative SentimentSignal = "negative"
	SentimentNeutral  SentimentSignal = "neutral"
)

// Signals are the inputs available for one fusion decision.
// ChangePercent is always present; the rest are optional and determine
// the policy: price+sentiment+valuation+trend selects the four-signal
// weighted policy, price+sentiment the two-signal matrix, and price
// alone the banded baseline.
type Signals struct {
	ChangePercent float64
	Sentiment     *types.SentimentAggregate
	Valuation     *types.ValuationSummary
	LongTermTrend types.Trend
}

// PriceMomentum labels a 24h-equivalent change by its sign.
func PriceMomentum(changePercent float64) Momentum {
	if changePercent > 0 {
		return MomentumBullish
	}
	return MomentumBearish
}

// Discretize maps an aggregate sentiment to its signal with a +/-0.1
// neutral band.
func Discretize(overall float64) SentimentSignal {
	switch {
	case overall > 0.1:
		return SentimentPositive
	case overall < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Fuse selects the richest applicable policy and returns the combined
// recommendation. It is deterministic, and the factor list preserves
// the fixed price, sentiment, valuation, trend order.
func Fuse(s Signals) types.FusionResult {
	if s.Valuation != nil && s.LongTermTrend != "" && s.Sentiment != nil {
		return fuseWeighted(s)
	}
	if s.Sentiment != nil {
		return fuseTwoSignal(s)
	}
	return fusePriceOnly(s.ChangePercent)
}

// fuseWeighted is the four-signal integer-score policy.
func fuseWeighted(s Signals) types.FusionResult {
	score := 0
	factors := []string{}

	switch PriceMomentum(s.ChangePercent) {
	case MomentumBullish:
		score++
		factors = append(factors, "Positive price momentum")
	case MomentumBearish:
		score--
		factors = append(factors, "Negative price momentum")
	}

	switch Discretize(s.Sentiment.OverallSentiment) {
	case SentimentPositive:
		score++
		factors = append(factors, "Positive market sentiment")
	case SentimentNegative:
		score--
		factors = append(factors, "Negative market sentiment")
	}

	switch s.Valuation.Assessment {
	case types.Undervalued:
		score += 2
		factors = append(factors, "Fundamentally undervalued")
	case types.Overvalued:
		score -= 2
		factors = append(factors, "Fundamentally overvalued")
	}

	switch s.LongTermTrend {
	case types.TrendBullish:
		score++
		factors = append(factors, "Strong long-term trend")
	case types.TrendBearish:
		score--
		factors = append(factors, "Weak long-term trend")
	}

	res := types.FusionResult{Score: score, Factors: factors}
	switch {
	case score >= 3:
		res.Recommendation, res.Confidence = StrongBuy, 0.95
	case score >= 1:
		res.Recommendation, res.Confidence = Buy, 0.80
	case score <= -3:
		res.Recommendation, res.Confidence = StrongSell, 0.95
	case score <= -1:
		res.Recommendation, res.Confidence = Sell, 0.80
	default:
		res.Recommendation, res.Confidence = Hold, 0.60
	}
	return res
}

// fuseTwoSignal is the price+sentiment matrix policy.
func fuseTwoSignal(s Signals) types.FusionResult {
	momentum := PriceMomentum(s.ChangePercent)
	signal := Discretize(s.Sentiment.OverallSentiment)

	var rec string
	var conf float64
	switch {
	case momentum == MomentumBullish && signal == SentimentPositive:
		rec, conf = StrongBuy, 0.9
	case momentum == MomentumBearish && signal == SentimentNegative:
		rec, conf = StrongSell, 0.9
	case momentum == MomentumBullish && signal == SentimentNeutral:
		rec, conf = Buy, 0.7
	case momentum == MomentumBearish && signal == SentimentNeutral:
		rec, conf = Sell, 0.7
	case momentum == MomentumBearish && signal == SentimentPositive,
		momentum == MomentumBullish && signal == SentimentNegative:
		rec, conf = HoldConflicting, 0.5
	default:
		rec, conf = Hold, 0.6
	}

	return types.FusionResult{Recommendation: rec, Confidence: conf}
}

// fusePriceOnly is the degraded no-news baseline on +/-2% and +/-5%
// change bands.
func fusePriceOnly(changePercent float64) types.FusionResult {
	rec := Hold
	switch {
	case changePercent > 5:
		rec = StrongBuy
	case changePercent > 2:
		rec = Buy
	case changePercent < -5:
		rec = StrongSell
	case changePercent < -2:
		rec = Sell
	}

	conf := changePercent / 10
	if conf < 0 {
		conf = -conf
	}
	if conf > 1 {
		conf = 1
	}
	return types.FusionResult{Recommendation: rec, Confidence: conf}
}
