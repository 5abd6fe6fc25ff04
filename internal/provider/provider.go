// Package provider defines the external data collaborators the
// analysis orchestrator consumes. The core engines never fetch; they
// operate on the parsed values these interfaces return.
package provider

import (
	"context"

	"smartinvest/internal/types"
)

// PriceProvider supplies quotes and historical bars. An empty series
// or a nil quote is a valid "no data for this symbol" response, not an
// error.
type PriceProvider interface {
	Quote(ctx context.Context, symbol string) (*types.Quote, error)
	History(ctx context.Context, symbol string, days int) ([]types.PriceBar, error)
}

// FundamentalsProvider supplies the sparse ratio mapping per symbol.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
}

// NewsProvider supplies parsed articles per symbol and lookback window.
// Title is always set; description and body may be empty.
type NewsProvider interface {
	News(ctx context.Context, symbol string, days int) ([]types.Article, error)
}
