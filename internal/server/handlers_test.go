package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartinvest/internal/analysis"
	"smartinvest/internal/sentiment"
	"smartinvest/internal/store"
	"smartinvest/internal/types"
)

// stubProvider serves a fixed symbol universe from memory.
type stubProvider struct {
	quotes map[string]*types.Quote
	bars   map[string][]types.PriceBar
	funds  map[string]types.Fundamentals
	news   map[string][]types.Article
}

func (s *stubProvider) Quote(_ context.Context, symbol string) (*types.Quote, error) {
	return s.quotes[symbol], nil
}

func (s *stubProvider) History(_ context.Context, symbol string, _ int) ([]types.PriceBar, error) {
	return s.bars[symbol], nil
}

func (s *stubProvider) Fundamentals(_ context.Context, symbol string) (types.Fundamentals, error) {
	return s.funds[symbol], nil
}

func (s *stubProvider) News(_ context.Context, symbol string, _ int) ([]types.Article, error) {
	return s.news[symbol], nil
}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Server.Port = 8080
	cfg.Server.RequestTimeout = 5
	cfg.Providers.Price = "YAHOO"
	cfg.News.MaxArticles = 5
	cfg.News.LookbackDays = 2
	cfg.LLM.Provider = "NONE"
	cfg.Cache.QuoteSeconds = 60
	cfg.Cache.NewsSeconds = 60
	cfg.Cache.FundamentalsSeconds = 60
	cfg.Analysis.HistoryDays = 365
	return cfg
}

func testServer() *Server {
	closes := make([]types.PriceBar, 30)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		closes[i] = types.PriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Close:     100 + float64(i),
			Volume:    1000,
		}
	}

	stub := &stubProvider{
		quotes: map[string]*types.Quote{
			"RELIANCE": {Symbol: "RELIANCE", Price: 129, Change: 3.8, ChangePercent: 3.0, Timestamp: start},
		},
		bars: map[string][]types.PriceBar{"RELIANCE": closes},
		funds: map[string]types.Fundamentals{
			"RELIANCE": {
				TrailingPE:     types.Float(12),
				PriceToBook:    types.Float(1.2),
				ReturnOnEquity: types.Float(0.2),
			},
		},
		news: map[string][]types.Article{
			"RELIANCE": {
				{Title: "Record profit surge", URL: "http://example.com/1", PublishedAt: time.Now()},
			},
		},
	}

	cfg := testConfig()
	scorer := sentiment.NewScorer(nil)
	svc := analysis.New(cfg, stub, stub, stub, scorer)
	return New(cfg, svc)
}

func doGet(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/health")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Errorf("Expected 200 success, got %d %+v", rec.Code, resp)
	}
}

func TestQuoteKnownSymbol(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/stock/RELIANCE")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("Expected 200 success, got %d %+v", rec.Code, resp)
	}
}

func TestQuoteUnknownSymbolIs404(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/stock/NOSUCH")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if resp.Success {
		t.Error("Expected success=false")
	}
}

func TestSymbolIsUppercased(t *testing.T) {
	rec, _ := doGet(t, testServer(), "/api/v1/stock/reliance")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected lower-case path to resolve, got %d", rec.Code)
	}
}

func TestTechnicalAnalysis(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/analysis/technical/RELIANCE")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("Expected 200 success, got %d %+v", rec.Code, resp)
	}

	b, _ := json.Marshal(resp.Data)
	var report analysis.TechnicalReport
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("Bad report payload: %v", err)
	}
	if report.Technical == nil {
		t.Fatal("Expected technical snapshot")
	}
	if report.Technical.MovingAverages.SMA20 == nil {
		t.Error("Expected SMA20 for a 30-bar series")
	}
	if report.Risk.Beta != 1.0 {
		t.Errorf("Expected beta 1.0, got %f", report.Risk.Beta)
	}
}

func TestTechnicalAnalysisNoHistoryIs404(t *testing.T) {
	rec, _ := doGet(t, testServer(), "/api/v1/analysis/technical/NOSUCH")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without price history, got %d", rec.Code)
	}
}

func TestBasicAnalysis(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/analysis/RELIANCE")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	b, _ := json.Marshal(resp.Data)
	var report analysis.Report
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("Bad report payload: %v", err)
	}
	// +3% change lands in the Buy band.
	if report.Recommendation.Recommendation != "Buy" {
		t.Errorf("Expected Buy, got %s", report.Recommendation.Recommendation)
	}
}

func TestCompleteAnalysis(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/analysis/complete/RELIANCE")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	b, _ := json.Marshal(resp.Data)
	var report analysis.Report
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("Bad report payload: %v", err)
	}
	if report.Valuation == nil {
		t.Fatal("Expected valuation section")
	}
	if report.Valuation.Assessment != types.Undervalued {
		t.Errorf("Expected undervalued, got %s", report.Valuation.Assessment)
	}
	if report.Sentiment == nil {
		t.Fatal("Expected sentiment section")
	}
	if report.Recommendation.Recommendation == "" {
		t.Error("Expected a recommendation")
	}
}

func TestSentimentEndpoint(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/sentiment/RELIANCE")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	b, _ := json.Marshal(resp.Data)
	var agg types.SentimentAggregate
	if err := json.Unmarshal(b, &agg); err != nil {
		t.Fatalf("Bad payload: %v", err)
	}
	if agg.OverallSentiment <= 0 {
		t.Errorf("Expected positive keyword sentiment, got %f", agg.OverallSentiment)
	}
	if agg.PositiveCount != 1 {
		t.Errorf("Expected 1 positive article, got %d", agg.PositiveCount)
	}
}

func TestMultiQuote(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/stocks/multiple?symbols=RELIANCE,NOSUCH")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	data := resp.Data.(map[string]any)
	if data["count"].(float64) != 1 {
		t.Errorf("Expected 1 resolved quote, got %v", data["count"])
	}
}

func TestMultiQuoteMissingParam(t *testing.T) {
	rec, _ := doGet(t, testServer(), "/api/v1/stocks/multiple")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without symbols, got %d", rec.Code)
	}
}

func TestSectorComparisonRequiresPeers(t *testing.T) {
	rec, _ := doGet(t, testServer(), "/api/v1/comparison/sector/RELIANCE")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without peers, got %d", rec.Code)
	}
}

func TestSectorComparison(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/comparison/sector/RELIANCE?peers=NOSUCH")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("Expected 200 success, got %d %+v", rec.Code, resp)
	}
}

func TestFundamentalsEndpoint(t *testing.T) {
	rec, resp := doGet(t, testServer(), "/api/v1/fundamentals/RELIANCE")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("Expected 200 success, got %d %+v", rec.Code, resp)
	}
}
