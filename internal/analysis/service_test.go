package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartinvest/internal/sentiment"
	"smartinvest/internal/store"
	"smartinvest/internal/types"
)

type fakePrices struct {
	quote *types.Quote
	bars  []types.PriceBar
	err   error
}

func (f *fakePrices) Quote(_ context.Context, _ string) (*types.Quote, error) {
	return f.quote, f.err
}

func (f *fakePrices) History(_ context.Context, _ string, _ int) ([]types.PriceBar, error) {
	return f.bars, f.err
}

type failingNews struct{}

func (failingNews) News(_ context.Context, _ string, _ int) ([]types.Article, error) {
	return nil, errors.New("feed unreachable")
}

type fakeFunds struct {
	funds types.Fundamentals
	err   error
}

func (f *fakeFunds) Fundamentals(_ context.Context, _ string) (types.Fundamentals, error) {
	return f.funds, f.err
}

func testCfg() *store.Config {
	cfg := &store.Config{}
	cfg.Cache.QuoteSeconds = 60
	cfg.Cache.NewsSeconds = 60
	cfg.Cache.FundamentalsSeconds = 60
	cfg.Analysis.HistoryDays = 365
	cfg.News.LookbackDays = 2
	return cfg
}

func series(n int) []types.PriceBar {
	bars := make([]types.PriceBar, n)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = types.PriceBar{Timestamp: start.AddDate(0, 0, i), Close: 100 + float64(i), Volume: 500}
	}
	return bars
}

func TestQuoteNoData(t *testing.T) {
	svc := New(testCfg(), &fakePrices{}, nil, nil, sentiment.NewScorer(nil))

	_, err := svc.Quote(context.Background(), "NOSUCH")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestComprehensiveDegradesToPriceOnly(t *testing.T) {
	prices := &fakePrices{quote: &types.Quote{Symbol: "TCS", Price: 103, ChangePercent: 3}}
	svc := New(testCfg(), prices, nil, failingNews{}, sentiment.NewScorer(nil))

	report, err := svc.Comprehensive(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Sentiment != nil {
		t.Error("Expected sentiment section to be absent")
	}
	// +3% falls in the price-only Buy band.
	if report.Recommendation.Recommendation != "Buy" {
		t.Errorf("Expected price-only Buy, got %s", report.Recommendation.Recommendation)
	}
	if report.Recommendation.Confidence != 0.3 {
		t.Errorf("Expected confidence 0.3, got %f", report.Recommendation.Confidence)
	}
}

func TestCompleteSurvivesMissingOptionalSections(t *testing.T) {
	prices := &fakePrices{
		quote: &types.Quote{Symbol: "INFY", Price: 110, ChangePercent: 1.5},
		bars:  series(30),
	}
	funds := &fakeFunds{err: errors.New("quoteSummary down")}
	svc := New(testCfg(), prices, funds, failingNews{}, sentiment.NewScorer(nil))

	report, err := svc.Complete(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Quote == nil || report.Technical == nil || report.Risk == nil {
		t.Fatal("Expected quote, technical and risk sections")
	}
	if report.Valuation != nil || report.Sentiment != nil {
		t.Error("Expected failed sections to be absent")
	}
	if report.Recommendation.Recommendation == "" {
		t.Error("Expected a recommendation despite degraded inputs")
	}
}

func TestTechnicalSiblingIndependence(t *testing.T) {
	prices := &fakePrices{bars: series(10)}
	svc := New(testCfg(), prices, nil, nil, sentiment.NewScorer(nil))

	report, err := svc.Technical(context.Background(), "SBIN")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// 10 bars: indicators come back with absent fields, risk still
	// computes.
	if report.Technical == nil {
		t.Fatal("Expected technical snapshot")
	}
	if report.Risk.Volatility == nil {
		t.Error("Expected risk volatility for a 10-bar series")
	}
}

func TestHistoryCached(t *testing.T) {
	prices := &fakePrices{bars: series(5)}
	svc := New(testCfg(), prices, nil, nil, sentiment.NewScorer(nil))

	first, err := svc.History(context.Background(), "ITC")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Mutate the provider; the cached series must come back unchanged.
	prices.bars = series(50)
	second, err := svc.History(context.Background(), "ITC")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("Expected cached history, got %d then %d bars", len(first), len(second))
	}
}
