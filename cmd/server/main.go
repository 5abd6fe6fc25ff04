package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"smartinvest/internal/analysis"
	"smartinvest/internal/llm"
	"smartinvest/internal/logger"
	"smartinvest/internal/provider"
	"smartinvest/internal/provider/kite"
	"smartinvest/internal/provider/news"
	"smartinvest/internal/provider/yahoo"
	"smartinvest/internal/sentiment"
	"smartinvest/internal/server"
	"smartinvest/internal/store"
	"smartinvest/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	logger.Init()
	must(trace.Init())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(ctx)
	}()

	prices, funds := buildPriceProviders(cfg)

	newsOpts := []news.Option{
		news.WithFeedURLTemplate(cfg.News.FeedURLTemplate),
		news.WithScrapeFallback(cfg.News.ScrapeFallback),
	}
	articles := news.New(cfg.News.MaxArticles, cfg.RequestTimeout(), newsOpts...)

	client := llm.FromConfig(cfg)
	if client == nil {
		logger.Info(context.Background(), "No inference provider configured, sentiment uses keyword fallback")
	}
	scorer := sentiment.NewScorer(client, sentiment.WithPause(cfg.SentimentPause()))

	svc := analysis.New(cfg, prices, funds, articles, scorer)

	srv := server.New(cfg, svc)
	must(srv.ListenAndServe())
}

// buildPriceProviders returns the configured price source plus the
// fundamentals source. Kite carries no fundamentals; Yahoo backfills
// them either way.
func buildPriceProviders(cfg *store.Config) (provider.PriceProvider, provider.FundamentalsProvider) {
	yf := yahoo.New(cfg.RequestTimeout())
	if cfg.Providers.Price != "KITE" {
		return yf, yf
	}

	kt, err := kite.New(
		os.Getenv(cfg.Providers.Kite.APIKeyEnv),
		os.Getenv(cfg.Providers.Kite.TokenEnv),
		cfg.Providers.Kite.Exchange,
	)
	if err != nil {
		log.Printf("kite provider unavailable (%v), falling back to yahoo", err)
		return yf, yf
	}
	return kt, yf
}
