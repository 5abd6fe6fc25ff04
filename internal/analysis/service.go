// Package analysis orchestrates the data providers and signal engines
// into the reports the HTTP surface serves.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartinvest/internal/cache"
	"smartinvest/internal/fusion"
	"smartinvest/internal/indicator"
	"smartinvest/internal/logger"
	"smartinvest/internal/provider"
	"smartinvest/internal/risk"
	"smartinvest/internal/sentiment"
	"smartinvest/internal/store"
	"smartinvest/internal/types"
	"smartinvest/internal/valuation"
)

// ErrNoData marks a symbol the price provider has nothing for.
var ErrNoData = errors.New("no data available for symbol")

// Service wires providers, engines, and caches. All methods are safe
// for concurrent use.
type Service struct {
	cfg    *store.Config
	prices provider.PriceProvider
	funds  provider.FundamentalsProvider
	news   provider.NewsProvider
	scorer *sentiment.Scorer

	quoteCache   *cache.TTL
	historyCache *cache.TTL
	newsCache    *cache.TTL
	fundsCache   *cache.TTL
}

// New builds the orchestrator. funds and news may be nil when the
// configured provider does not supply them; the dependent reports then
// degrade rather than fail.
func New(cfg *store.Config, prices provider.PriceProvider, funds provider.FundamentalsProvider, news provider.NewsProvider, scorer *sentiment.Scorer) *Service {
	return &Service{
		cfg:          cfg,
		prices:       prices,
		funds:        funds,
		news:         news,
		scorer:       scorer,
		quoteCache:   cache.New(time.Duration(cfg.Cache.QuoteSeconds) * time.Second),
		historyCache: cache.New(time.Duration(cfg.Cache.QuoteSeconds) * time.Second),
		newsCache:    cache.New(time.Duration(cfg.Cache.NewsSeconds) * time.Second),
		fundsCache:   cache.New(time.Duration(cfg.Cache.FundamentalsSeconds) * time.Second),
	}
}

// TechnicalReport pairs the indicator snapshot with the risk snapshot.
// A computation fault in one engine leaves the sibling intact.
type TechnicalReport struct {
	Symbol         string                   `json:"symbol"`
	Technical      *types.TechnicalSnapshot `json:"technical_indicators,omitempty"`
	TechnicalError string                   `json:"technical_error,omitempty"`
	Risk           types.RiskSnapshot       `json:"risk_metrics"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// Report is the full per-symbol analysis response. Optional sections
// are nil when their inputs were unavailable.
type Report struct {
	Symbol         string                    `json:"symbol"`
	Quote          *types.Quote              `json:"quote"`
	Technical      *types.TechnicalSnapshot  `json:"technical_indicators,omitempty"`
	Risk           *types.RiskSnapshot       `json:"risk_metrics,omitempty"`
	Valuation      *types.ValuationSummary   `json:"valuation,omitempty"`
	Sentiment      *types.SentimentAggregate `json:"sentiment,omitempty"`
	Recommendation types.FusionResult        `json:"recommendation"`
	GeneratedAt    time.Time                 `json:"generated_at"`
}

// Quote returns the cached latest quote, or ErrNoData for a symbol the
// provider does not know.
func (s *Service) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	v, err := s.quoteCache.GetOrLoad("quote:"+symbol, func() (any, error) {
		q, err := s.prices.Quote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nil, ErrNoData
		}
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Quote), nil
}

// History returns the cached daily bars for the configured lookback.
func (s *Service) History(ctx context.Context, symbol string) ([]types.PriceBar, error) {
	v, err := s.historyCache.GetOrLoad("history:"+symbol, func() (any, error) {
		return s.prices.History(ctx, symbol, s.cfg.Analysis.HistoryDays)
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.PriceBar), nil
}

// News returns the cached recent articles, unscored.
func (s *Service) News(ctx context.Context, symbol string) ([]types.Article, error) {
	if s.news == nil {
		return nil, nil
	}
	v, err := s.newsCache.GetOrLoad("news:"+symbol, func() (any, error) {
		return s.news.News(ctx, symbol, s.cfg.News.LookbackDays)
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.Article), nil
}

// Fundamentals returns the cached ratio mapping. A provider without
// fundamentals yields the empty mapping.
func (s *Service) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	if s.funds == nil {
		return types.Fundamentals{}, nil
	}
	v, err := s.fundsCache.GetOrLoad("fundamentals:"+symbol, func() (any, error) {
		return s.funds.Fundamentals(ctx, symbol)
	})
	if err != nil {
		return types.Fundamentals{}, err
	}
	return v.(types.Fundamentals), nil
}

// Sentiment fetches the symbol's news and scores it. No news yields an
// empty aggregate, not an error.
func (s *Service) Sentiment(ctx context.Context, symbol string) (*types.SentimentAggregate, error) {
	timer := logger.StartOperation(ctx, "sentiment-analysis", "symbol", symbol)
	ctx = timer.GetContext()

	articles, err := s.News(ctx, symbol)
	if err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}

	agg := s.scorer.ScoreBatch(ctx, symbol, articles)
	timer.End("articles", len(agg.Articles), "overall", agg.OverallSentiment)
	return &agg, nil
}

// Technical computes the indicator and risk snapshots over the price
// history. The engines fail independently: an indicator computation
// fault is reported inline while the risk metrics still come back.
func (s *Service) Technical(ctx context.Context, symbol string) (*TechnicalReport, error) {
	bars, err := s.History(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	report := &TechnicalReport{
		Symbol:      symbol,
		Risk:        risk.Snapshot(bars),
		GeneratedAt: time.Now(),
	}

	snap, err := indicator.Snapshot(bars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Indicator computation failed", err, "symbol", symbol)
		report.TechnicalError = err.Error()
	} else {
		report.Technical = &snap
	}
	return report, nil
}

// Basic is the price-only analysis: quote plus the banded baseline
// recommendation.
func (s *Service) Basic(ctx context.Context, symbol string) (*Report, error) {
	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	rec := fusion.Fuse(fusion.Signals{ChangePercent: quote.ChangePercent})
	logger.Recommendation(ctx, symbol, rec.Recommendation, rec.Confidence, "policy", "price-only")

	return &Report{
		Symbol:         symbol,
		Quote:          quote,
		Recommendation: rec,
		GeneratedAt:    time.Now(),
	}, nil
}

// Comprehensive combines price momentum with news sentiment via the
// two-signal matrix. A news failure degrades to the price-only policy.
func (s *Service) Comprehensive(ctx context.Context, symbol string) (*Report, error) {
	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	agg, err := s.Sentiment(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Sentiment unavailable, degrading to price-only", "symbol", symbol, "error", err)
		agg = nil
	}

	rec := fusion.Fuse(fusion.Signals{
		ChangePercent: quote.ChangePercent,
		Sentiment:     agg,
	})
	logger.Recommendation(ctx, symbol, rec.Recommendation, rec.Confidence, "policy", "two-signal")

	return &Report{
		Symbol:         symbol,
		Quote:          quote,
		Sentiment:      agg,
		Recommendation: rec,
		GeneratedAt:    time.Now(),
	}, nil
}

// Complete runs every engine and fuses all four signals. Each optional
// section degrades independently; only a missing quote aborts.
func (s *Service) Complete(ctx context.Context, symbol string) (*Report, error) {
	timer := logger.StartOperation(ctx, "complete-analysis", "symbol", symbol)
	ctx = timer.GetContext()

	quote, err := s.Quote(ctx, symbol)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	report := &Report{
		Symbol:      symbol,
		Quote:       quote,
		GeneratedAt: time.Now(),
	}

	if tech, err := s.Technical(ctx, symbol); err != nil {
		logger.Warn(ctx, "Technical analysis unavailable", "symbol", symbol, "error", err)
	} else {
		report.Technical = tech.Technical
		report.Risk = &tech.Risk
	}

	if funds, err := s.Fundamentals(ctx, symbol); err != nil {
		logger.Warn(ctx, "Fundamentals unavailable", "symbol", symbol, "error", err)
	} else {
		v := valuation.Score(funds)
		report.Valuation = &v
	}

	if agg, err := s.Sentiment(ctx, symbol); err != nil {
		logger.Warn(ctx, "Sentiment unavailable", "symbol", symbol, "error", err)
	} else {
		report.Sentiment = agg
	}

	signals := fusion.Signals{
		ChangePercent: quote.ChangePercent,
		Sentiment:     report.Sentiment,
		Valuation:     report.Valuation,
	}
	if report.Technical != nil {
		signals.LongTermTrend = report.Technical.Trends.LongTerm
	}

	report.Recommendation = fusion.Fuse(signals)
	logger.Recommendation(ctx, symbol, report.Recommendation.Recommendation,
		report.Recommendation.Confidence, "score", report.Recommendation.Score)

	timer.End("recommendation", report.Recommendation.Recommendation)
	return report, nil
}

// MultiQuote fetches quotes for several symbols concurrently. Symbols
// the provider has nothing for are dropped from the result; only a
// hard provider failure is an error.
func (s *Service) MultiQuote(ctx context.Context, symbols []string) ([]*types.Quote, error) {
	quotes := make([]*types.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			q, err := s.Quote(ctx, sym)
			if err != nil {
				if !errors.Is(err, ErrNoData) {
					logger.Warn(ctx, "Quote fetch failed", "symbol", sym, "error", err)
				}
				return
			}
			quotes[i] = q
		}(i, sym)
	}
	wg.Wait()

	out := make([]*types.Quote, 0, len(symbols))
	for _, q := range quotes {
		if q != nil {
			out = append(out, q)
		}
	}
	return out, nil
}

// CompareSector ranks the target's fundamental ratios against its
// peers. Peers whose fundamentals cannot be fetched are skipped.
func (s *Service) CompareSector(ctx context.Context, symbol string, peers []string) (valuation.SectorComparison, error) {
	group := make(map[string]types.Fundamentals, len(peers)+1)
	var mu sync.Mutex

	var wg sync.WaitGroup
	for _, sym := range append([]string{symbol}, peers...) {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			f, err := s.Fundamentals(ctx, sym)
			if err != nil {
				logger.Warn(ctx, "Peer fundamentals unavailable", "symbol", sym, "error", err)
				return
			}
			mu.Lock()
			group[sym] = f
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	if len(group) == 0 {
		return valuation.SectorComparison{}, fmt.Errorf("no sector data available for %s", symbol)
	}
	return valuation.Compare(symbol, peers, group), nil
}

// PortfolioEntry is one equally weighted position in the demo
// portfolio.
type PortfolioEntry struct {
	Quote  *types.Quote `json:"quote"`
	Weight float64      `json:"weight"`
}

// Portfolio is the equal-weight demo portfolio summary.
type Portfolio struct {
	Positions          map[string]PortfolioEntry `json:"portfolio"`
	TotalChangePercent float64                   `json:"total_change_percent"`
	Status             string                    `json:"status"`
	Timestamp          time.Time                 `json:"timestamp"`
}

// DemoPortfolio builds an equal-weight portfolio over the given
// symbols and reports its aggregate daily move.
func (s *Service) DemoPortfolio(ctx context.Context, symbols []string) (*Portfolio, error) {
	quotes, err := s.MultiQuote(ctx, symbols)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNoData
	}

	weight := 100.0 / float64(len(quotes))
	positions := make(map[string]PortfolioEntry, len(quotes))
	total := 0.0
	for _, q := range quotes {
		positions[q.Symbol] = PortfolioEntry{Quote: q, Weight: weight}
		total += q.ChangePercent
	}
	total /= float64(len(quotes))

	status := "Down"
	if total > 0 {
		status = "Up"
	}

	return &Portfolio{
		Positions:          positions,
		TotalChangePercent: total,
		Status:             status,
		Timestamp:          time.Now(),
	}, nil
}
