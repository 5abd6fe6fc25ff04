// Package sentiment scores news articles for financial sentiment.
//
// Scoring prefers the configured text-inference capability and falls
// back to a deterministic keyword count when the capability is absent
// or the call fails. A response that parses but contains no numeric
// token scores neutral without re-triggering the fallback.
package sentiment

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"smartinvest/internal/llm"
	"smartinvest/internal/logger"
	"smartinvest/internal/trace"
	"smartinvest/internal/types"
)

// promptTextLimit bounds the article text embedded in the prompt.
const promptTextLimit = 500

// defaultPause spaces out external calls within one batch to respect
// provider rate limits.
const defaultPause = 100 * time.Millisecond

// numberPattern extracts the first numeric token from a model reply.
var numberPattern = regexp.MustCompile(`-?\d*\.?\d+`)

// Scorer scores single articles and aggregates batches.
type Scorer struct {
	client llm.Client // nil when no inference capability is configured
	pause  time.Duration
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithPause overrides the inter-call pause used between external calls.
func WithPause(d time.Duration) Option {
	return func(s *Scorer) { s.pause = d }
}

// NewScorer builds a scorer around an optional inference client. A nil
// client selects the keyword fallback for every article.
func NewScorer(client llm.Client, opts ...Option) *Scorer {
	s := &Scorer{client: client, pause: defaultPause}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreArticle scores one article in [-1, 1].
func (s *Scorer) ScoreArticle(ctx context.Context, article types.Article) float64 {
	if s.client == nil {
		logger.Debug(ctx, "No inference client configured, using keyword fallback",
			"title", truncate(article.Title, 50))
		return KeywordScore(article)
	}

	reply, err := s.client.Complete(ctx, buildPrompt(article))
	if err != nil {
		logger.Warn(ctx, "Inference call failed, using keyword fallback",
			"provider", s.client.Name(), "title", truncate(article.Title, 50), "error", err)
		return KeywordScore(article)
	}

	score, ok := parseScore(reply)
	if !ok {
		// The call succeeded but returned no numeric token. That is a
		// parse failure scored neutral, not a reason to fall back.
		logger.Warn(ctx, "Could not parse sentiment from model reply",
			"provider", s.client.Name(), "reply", truncate(reply, 80))
		return 0.0
	}
	return score
}

// ScoreBatch scores the articles sequentially, pacing external calls,
// and returns the aggregate. One failing article never aborts the
// batch. The returned article list carries the per-article scores; the
// input slice is not mutated.
func (s *Scorer) ScoreBatch(ctx context.Context, symbol string, articles []types.Article) types.SentimentAggregate {
	ctx, span := trace.StartSpan(ctx, "score-article-batch")
	defer span.End()

	agg := types.SentimentAggregate{
		Symbol:    symbol,
		Articles:  []types.Article{},
		Timestamp: time.Now(),
	}
	if len(articles) == 0 {
		return agg
	}

	scored := make([]types.Article, len(articles))
	copy(scored, articles)

	total := 0.0
	for i := range scored {
		logger.Info(ctx, "Scoring article", "symbol", symbol,
			"index", i+1, "count", len(scored), "title", truncate(scored[i].Title, 50))

		score := s.ScoreArticle(ctx, scored[i])
		scored[i].Sentiment = &score
		total += score

		switch {
		case score > 0.2:
			agg.PositiveCount++
		case score < -0.2:
			agg.NegativeCount++
		default:
			agg.NeutralCount++
		}

		if s.client != nil && i < len(scored)-1 {
			// Cooperative pause between external calls; honors
			// caller cancellation.
			select {
			case <-ctx.Done():
			case <-time.After(s.pause):
			}
		}
	}

	agg.OverallSentiment = clamp(total/float64(len(scored)), -1.0, 1.0)
	agg.Articles = scored
	return agg
}

// KeywordScore is the deterministic fallback: each keyword list entry
// present in the lower-cased title+description counts once, 0.2 per
// net hit, capped at +/-0.8.
func KeywordScore(article types.Article) float64 {
	text := strings.ToLower(article.Title + " " + article.Description)

	positives, negatives := 0, 0
	for _, kw := range positiveKeywords {
		if strings.Contains(text, kw) {
			positives++
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(text, kw) {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return min(0.8, float64(positives)*0.2)
	case negatives > positives:
		return max(-0.8, -float64(negatives)*0.2)
	default:
		return 0.0
	}
}

func buildPrompt(article types.Article) string {
	text := article.Title + ". " + article.Description
	if len(text) > promptTextLimit {
		text = text[:promptTextLimit]
	}

	return fmt.Sprintf(`Analyze the financial sentiment of this news article about a stock/company.

Article: %q

Rate the sentiment on a scale from -1.0 to 1.0 where:
- -1.0 = Very negative (likely to hurt stock price)
- -0.5 = Negative (bearish sentiment)
- 0.0 = Neutral (no clear impact)
- 0.5 = Positive (bullish sentiment)
- 1.0 = Very positive (likely to boost stock price)

Consider factors like:
- Financial performance mentions
- Market outlook
- Company strategy
- Regulatory news
- Economic indicators

Respond with only the numerical sentiment score (e.g., 0.7, -0.3, 0.0):`, text)
}

// parseScore extracts the first numeric token and clamps it to [-1, 1].
func parseScore(reply string) (float64, bool) {
	token := numberPattern.FindString(reply)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return clamp(v, -1.0, 1.0), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
