// Package kite serves prices from the Zerodha Kite Connect REST API.
// It is the price source for NSE/BSE symbols Yahoo covers poorly.
package kite

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"smartinvest/internal/logger"
	"smartinvest/internal/provider"
	"smartinvest/internal/types"
)

const dayInterval = "day"

// Provider wraps an authenticated Kite Connect client.
type Provider struct {
	kc       *kiteconnect.Client
	exchange string
}

var _ provider.PriceProvider = (*Provider)(nil)

// New creates a Kite provider for the given exchange.
func New(apiKey, accessToken, exchange string) (*Provider, error) {
	if apiKey == "" || accessToken == "" {
		return nil, fmt.Errorf("kite provider requires both API key and access token")
	}
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Provider{kc: kc, exchange: exchange}, nil
}

// Quote returns the latest traded state for an exchange-qualified
// symbol. An instrument Kite does not know yields nil without error.
func (p *Provider) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	instrument := fmt.Sprintf("%s:%s", p.exchange, symbol)

	quotes, err := p.kc.GetQuote(instrument)
	if err != nil {
		return nil, fmt.Errorf("kite quote for %s: %w", instrument, err)
	}
	q, ok := quotes[instrument]
	if !ok {
		return nil, nil
	}

	out := &types.Quote{
		Symbol:    symbol,
		Price:     q.LastPrice,
		Change:    q.NetChange,
		Volume:    int64(q.Volume),
		Timestamp: q.Timestamp.Time,
	}
	if prev := q.OHLC.Close; prev != 0 {
		out.ChangePercent = q.NetChange / prev * 100
	}
	return out, nil
}

// History returns daily candles for the lookback window, oldest first.
func (p *Provider) History(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	token, ok := instrumentToken(symbol)
	if !ok {
		logger.Warn(ctx, "No instrument token mapping", "symbol", symbol)
		return nil, nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	candles, err := p.kc.GetHistoricalData(token, dayInterval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical data for %s: %w", symbol, err)
	}

	bars := make([]types.PriceBar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, types.PriceBar{
			Timestamp: c.Date.Time,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    int64(c.Volume),
		})
	}
	return bars, nil
}

// instrumentToken maps a trading symbol to its Kite instrument token.
// TODO: replace with a daily pull of the kc.GetInstruments dump.
func instrumentToken(symbol string) (int, bool) {
	tokens := map[string]int{
		"RELIANCE":   256265,
		"TCS":        2953217,
		"HDFCBANK":   341249,
		"INFY":       408065,
		"HCLTECH":    1850625,
		"LT":         2939649,
		"SBIN":       779521,
		"ICICIBANK":  1270529,
		"AXISBANK":   1510401,
		"KOTAKBANK":  492033,
		"ITC":        424961,
		"TATAMOTORS": 884737,
		"TITAN":      897537,
		"JSWSTEEL":   3001089,
		"ULTRACEMCO": 2952193,
		"BAJFINANCE": 81153,
		"HDFCLIFE":   119553,
		"BHARTIARTL": 2714625,
		"ASIANPAINT": 60417,
		"MARUTI":     2815745,
	}
	token, ok := tokens[symbol]
	return token, ok
}
