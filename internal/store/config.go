package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int `yaml:"port"`
		RequestTimeout int `yaml:"request_timeout_seconds"`
	} `yaml:"server"`

	Providers struct {
		Price string `yaml:"price"` // YAHOO or KITE
		Kite  struct {
			Exchange  string `yaml:"exchange"`
			APIKeyEnv string `yaml:"api_key_env"`
			TokenEnv  string `yaml:"access_token_env"`
		} `yaml:"kite"`
	} `yaml:"providers"`

	News struct {
		MaxArticles     int    `yaml:"max_articles"`
		LookbackDays    int    `yaml:"lookback_days"`
		FeedURLTemplate string `yaml:"feed_url_template"`
		ScrapeFallback  bool   `yaml:"scrape_fallback"`
	} `yaml:"news"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE, or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		PauseMillis int     `yaml:"pause_millis"`
	} `yaml:"llm"`

	Cache struct {
		QuoteSeconds        int `yaml:"quote_seconds"`
		NewsSeconds         int `yaml:"news_seconds"`
		FundamentalsSeconds int `yaml:"fundamentals_seconds"`
	} `yaml:"cache"`

	Analysis struct {
		HistoryDays int `yaml:"history_days"`
	} `yaml:"analysis"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1-65535, got %d", c.Server.Port)
	}
	if c.Providers.Price != "YAHOO" && c.Providers.Price != "KITE" {
		return fmt.Errorf("providers.price must be 'YAHOO' or 'KITE', got '%s'", c.Providers.Price)
	}
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NONE":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE', or 'NONE', got '%s'", c.LLM.Provider)
	}
	if c.News.MaxArticles <= 0 {
		return fmt.Errorf("news.max_articles must be positive, got %d", c.News.MaxArticles)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30
	}
	if c.Providers.Price == "" {
		c.Providers.Price = "YAHOO"
	}
	if c.Providers.Kite.Exchange == "" {
		c.Providers.Kite.Exchange = "NSE"
	}
	if c.Providers.Kite.APIKeyEnv == "" {
		c.Providers.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Providers.Kite.TokenEnv == "" {
		c.Providers.Kite.TokenEnv = "KITE_ACCESS_TOKEN"
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 5
	}
	if c.News.LookbackDays == 0 {
		c.News.LookbackDays = 2
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NONE"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 50
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.PauseMillis == 0 {
		c.LLM.PauseMillis = 100
	}
	if c.Cache.QuoteSeconds == 0 {
		c.Cache.QuoteSeconds = 300
	}
	if c.Cache.NewsSeconds == 0 {
		c.Cache.NewsSeconds = 900
	}
	if c.Cache.FundamentalsSeconds == 0 {
		c.Cache.FundamentalsSeconds = 1800
	}
	if c.Analysis.HistoryDays == 0 {
		c.Analysis.HistoryDays = 365
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// SentimentPause returns the inter-call pause for sentiment batches.
func (c *Config) SentimentPause() time.Duration {
	return time.Duration(c.LLM.PauseMillis) * time.Millisecond
}
