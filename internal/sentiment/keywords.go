package sentiment

// Financial keyword lists for the deterministic fallback scorer.
// Multi-word entries match as phrases inside the lower-cased text.

var positiveKeywords = []string{
	"profit", "growth", "increase", "beat", "exceed", "strong", "record",
	"buy", "bullish", "upgrade", "outperform", "rally", "surge", "gains",
	"earnings beat", "revenue growth", "positive outlook", "expansion",
}

var negativeKeywords = []string{
	"loss", "decline", "fall", "drop", "miss", "weak", "concern",
	"sell", "bearish", "downgrade", "underperform", "crash", "plunge",
	"earnings miss", "revenue decline", "negative outlook", "layoffs",
}
