package types

import "time"

// PriceBar is one OHLCV bar. Series are chronological, oldest first.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Quote is the latest traded state of a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	MarketCap     *float64  `json:"market_cap,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Article is a parsed news item. Sentiment is nil until scored and is
// set exactly once per analysis pass.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Body        string    `json:"body,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   *float64  `json:"sentiment_score,omitempty"`
}

// Fundamentals is a sparse ratio mapping. A nil field means the ratio
// was not disclosed, which is distinct from a disclosed zero.
type Fundamentals struct {
	MarketCap           *float64 `json:"market_cap,omitempty"`
	EnterpriseValue     *float64 `json:"enterprise_value,omitempty"`
	TrailingPE          *float64 `json:"trailing_pe,omitempty"`
	ForwardPE           *float64 `json:"forward_pe,omitempty"`
	PriceToBook         *float64 `json:"price_to_book,omitempty"`
	PriceToSales        *float64 `json:"price_to_sales,omitempty"`
	EnterpriseToRevenue *float64 `json:"enterprise_to_revenue,omitempty"`
	EnterpriseToEBITDA  *float64 `json:"enterprise_to_ebitda,omitempty"`
	ProfitMargins       *float64 `json:"profit_margins,omitempty"`
	OperatingMargins    *float64 `json:"operating_margins,omitempty"`
	ReturnOnAssets      *float64 `json:"return_on_assets,omitempty"`
	ReturnOnEquity      *float64 `json:"return_on_equity,omitempty"`
	RevenueGrowth       *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth      *float64 `json:"earnings_growth,omitempty"`
	DebtToEquity        *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio        *float64 `json:"current_ratio,omitempty"`
	QuickRatio          *float64 `json:"quick_ratio,omitempty"`
	DividendYield       *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio         *float64 `json:"payout_ratio,omitempty"`
}

// Trend labels for close-vs-SMA comparisons.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// MovingAverages holds the last-bar simple moving averages. A window
// with fewer bars than its length is nil, never zero.
type MovingAverages struct {
	SMA20  *float64 `json:"sma_20,omitempty"`
	SMA50  *float64 `json:"sma_50,omitempty"`
	SMA200 *float64 `json:"sma_200,omitempty"`
}

// MACD is the line/signal/histogram triple at the latest bar.
type MACD struct {
	Line      *float64 `json:"line,omitempty"`
	Signal    *float64 `json:"signal,omitempty"`
	Histogram *float64 `json:"histogram,omitempty"`
}

// Momentum groups the momentum oscillators.
type Momentum struct {
	RSI  *float64 `json:"rsi,omitempty"`
	MACD MACD     `json:"macd"`
}

// VolumeStats compares latest volume against its 20-bar average.
type VolumeStats struct {
	Avg20  *float64 `json:"avg_volume_20d,omitempty"`
	Latest float64  `json:"current_volume"`
	Ratio  *float64 `json:"volume_ratio,omitempty"`
}

// TrendSignals carries three independent labels, one per SMA window.
type TrendSignals struct {
	ShortTerm  Trend `json:"short_term"`
	MediumTerm Trend `json:"medium_term"`
	LongTerm   Trend `json:"long_term"`
}

// TechnicalSnapshot is the Indicator Engine output for one series.
type TechnicalSnapshot struct {
	MovingAverages MovingAverages `json:"moving_averages"`
	Momentum       Momentum       `json:"momentum_indicators"`
	Volume         VolumeStats    `json:"volume_analysis"`
	Trends         TrendSignals   `json:"trend_signals"`
	BarsAnalyzed   int            `json:"data_points_analyzed"`
}

// RiskTier classifies annualized volatility.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskVeryHigh RiskTier = "very_high"
	RiskUnknown  RiskTier = "unknown"
)

// RiskSnapshot is the Risk Engine output. Beta is a fixed 1.0
// placeholder until a market-index input is specified.
type RiskSnapshot struct {
	Volatility  *float64 `json:"volatility,omitempty"`
	MaxDrawdown *float64 `json:"max_drawdown,omitempty"`
	Beta        float64  `json:"beta"`
	Tier        RiskTier `json:"risk_level"`
}

// Assessment is the categorical valuation verdict.
type Assessment string

const (
	Undervalued  Assessment = "undervalued"
	Overvalued   Assessment = "overvalued"
	FairlyValued Assessment = "fairly_valued"
	ValueUnknown Assessment = "unknown"
)

// ValuationSummary is the rule-based valuation verdict.
type ValuationSummary struct {
	Assessment Assessment `json:"overall_assessment"`
	Score      int        `json:"valuation_score"`
	Signals    []string   `json:"key_signals"`
}

// SentimentAggregate summarizes per-article scores for one symbol.
// OverallSentiment is always within [-1, 1].
type SentimentAggregate struct {
	Symbol           string    `json:"symbol"`
	OverallSentiment float64   `json:"overall_sentiment"`
	PositiveCount    int       `json:"positive_count"`
	NegativeCount    int       `json:"negative_count"`
	NeutralCount     int       `json:"neutral_count"`
	Articles         []Article `json:"news_articles"`
	Timestamp        time.Time `json:"timestamp"`
}

// FusionResult is the combined recommendation.
type FusionResult struct {
	Recommendation string   `json:"recommendation"`
	Confidence     float64  `json:"confidence_score"`
	Score          int      `json:"recommendation_score"`
	Factors        []string `json:"supporting_factors,omitempty"`
}

// Float returns a pointer to v. Convenience for building sparse records.
func Float(v float64) *float64 { return &v }
