// Package llm exposes the optional text-inference capability used for
// sentiment scoring. The capability may be entirely absent (no
// credential configured); FromConfig makes that absence explicit so
// callers take their deterministic fallback path in one place.
package llm

import (
	"context"
	"os"
	"strings"

	"smartinvest/internal/llm/claude"
	"smartinvest/internal/llm/openai"
	"smartinvest/internal/store"
)

// Client is a minimal prompt-in, text-out completion interface.
type Client interface {
	// Complete sends the prompt and returns the raw model text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider for logging.
	Name() string
}

// FromConfig returns the configured inference client, or nil when no
// provider or credential is configured. A nil client is a first-class
// state, not an error.
func FromConfig(cfg *store.Config) Client {
	switch strings.ToUpper(cfg.LLM.Provider) {
	case "OPENAI":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil
		}
		return openai.New(cfg)
	case "CLAUDE":
		if os.Getenv("CLAUDE_API_KEY") == "" {
			return nil
		}
		return claude.New(cfg)
	default:
		return nil
	}
}
