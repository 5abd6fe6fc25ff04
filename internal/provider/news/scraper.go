package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"smartinvest/internal/logger"
	"smartinvest/internal/types"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper pulls article listings from financial news sites. It is the
// fallback path when the RSS feed yields nothing.
type Scraper struct {
	sources []scrapeSource
	timeout time.Duration
}

type scrapeSource struct {
	name       string
	baseURL    string
	searchPath string // {symbol} is replaced with the lowercased symbol
	selectors  articleSelectors
	rateLimit  time.Duration
}

type articleSelectors struct {
	container string
	title     string
	link      string
	summary   string
}

// NewScraper creates a scraper over the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultScrapeSources(),
		timeout: timeout,
	}
}

func defaultScrapeSources() []scrapeSource {
	return []scrapeSource{
		{
			name:       "MoneyControl",
			baseURL:    "https://www.moneycontrol.com",
			searchPath: "/news/tags/{symbol}.html",
			selectors: articleSelectors{
				container: "li.clearfix",
				title:     "h2 a, h3 a",
				link:      "h2 a, h3 a",
				summary:   "p",
			},
			rateLimit: 2 * time.Second,
		},
		{
			name:       "EconomicTimes",
			baseURL:    "https://economictimes.indiatimes.com",
			searchPath: "/topic/{symbol}",
			selectors: articleSelectors{
				container: "div.story-box",
				title:     "a",
				link:      "a",
				summary:   "p",
			},
			rateLimit: 2 * time.Second,
		},
	}
}

// Scrape fetches up to maxArticles listings across all sources.
func (s *Scraper) Scrape(ctx context.Context, symbol string, maxArticles int) ([]types.Article, error) {
	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.Article
	for _, src := range s.sources {
		articles, err := s.scrapeSource(ctx, src, symbol, perSource)
		if err != nil {
			logger.Warn(ctx, "Failed to scrape source", "source", src.name, "symbol", symbol, "error", err)
			continue
		}
		all = append(all, articles...)

		if len(all) >= maxArticles {
			break
		}
		time.Sleep(src.rateLimit)
	}
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src scrapeSource, symbol string, maxArticles int) ([]types.Article, error) {
	var articles []types.Article

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(src.baseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	c.OnHTML(src.selectors.container, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(src.selectors.title))
		if title == "" {
			return
		}
		link := e.ChildAttr(src.selectors.link, "href")
		if link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = src.baseURL + link
		}

		articles = append(articles, types.Article{
			Title:       title,
			Description: strings.TrimSpace(e.ChildText(src.selectors.summary)),
			URL:         link,
			Source:      src.name,
			PublishedAt: time.Now(),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scraping error", "source", src.name, "url", r.Request.URL.String(), "error", err)
	})

	searchURL := src.baseURL + strings.ReplaceAll(src.searchPath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return articles, nil
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
