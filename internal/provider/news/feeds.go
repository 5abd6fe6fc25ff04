// Package news collects recent articles per symbol, RSS first with an
// optional scrape fallback.
package news

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"smartinvest/internal/logger"
	"smartinvest/internal/provider"
	"smartinvest/internal/types"
)

// DefaultFeedURLTemplate is the Google News search feed; %s is the
// query-escaped symbol.
const DefaultFeedURLTemplate = "https://news.google.com/rss/search?q=%s+stock&hl=en-IN&gl=IN&ceid=IN:en"

// Provider fetches per-symbol articles from an RSS feed, falling back
// to scraping financial news sites when the feed comes back empty.
type Provider struct {
	parser         *gofeed.Parser
	feedTemplate   string
	maxArticles    int
	scrapeFallback bool
	scraper        *Scraper
}

var _ provider.NewsProvider = (*Provider)(nil)

// Option configures the news provider.
type Option func(*Provider)

// WithFeedURLTemplate overrides the default feed URL template.
func WithFeedURLTemplate(tmpl string) Option {
	return func(p *Provider) {
		if tmpl != "" {
			p.feedTemplate = tmpl
		}
	}
}

// WithScrapeFallback enables the colly scraper when the feed is empty.
func WithScrapeFallback(enabled bool) Option {
	return func(p *Provider) { p.scrapeFallback = enabled }
}

// New creates a news provider capped at maxArticles per request.
func New(maxArticles int, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		parser:       gofeed.NewParser(),
		feedTemplate: DefaultFeedURLTemplate,
		maxArticles:  maxArticles,
		scraper:      NewScraper(timeout),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// News returns up to maxArticles recent articles for the symbol,
// newest first, restricted to the lookback window. No articles is a
// valid empty result, not an error.
func (p *Provider) News(ctx context.Context, symbol string, days int) ([]types.Article, error) {
	articles, err := p.fromFeed(ctx, symbol, days)
	if err != nil {
		logger.Warn(ctx, "News feed fetch failed", "symbol", symbol, "error", err)
	}
	if len(articles) == 0 && p.scrapeFallback {
		scraped, scrapeErr := p.scraper.Scrape(ctx, symbol, p.maxArticles)
		if scrapeErr != nil {
			logger.Warn(ctx, "News scrape fallback failed", "symbol", symbol, "error", scrapeErr)
		}
		articles = scraped
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > p.maxArticles {
		articles = articles[:p.maxArticles]
	}
	return articles, nil
}

func (p *Provider) fromFeed(ctx context.Context, symbol string, days int) ([]types.Article, error) {
	feedURL := fmt.Sprintf(p.feedTemplate, url.QueryEscape(symbol))

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed for %s: %w", symbol, err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	articles := make([]types.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := types.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: stripHTML(item.Description),
			URL:         item.Link,
			Source:      feedSource(feed, item),
		}
		if a.Title == "" {
			continue
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
			if a.PublishedAt.Before(cutoff) {
				continue
			}
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func feedSource(feed *gofeed.Feed, item *gofeed.Item) string {
	if ext, ok := item.Extensions["source"]; ok {
		if nodes, ok := ext["source"]; ok && len(nodes) > 0 && nodes[0].Value != "" {
			return nodes[0].Value
		}
	}
	return feed.Title
}

// stripHTML strips markup from feed descriptions using goquery.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
