// Package yahoo fetches quotes, daily bars, and fundamental ratios from
// the unauthenticated Yahoo Finance endpoints.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"smartinvest/internal/api"
	"smartinvest/internal/logger"
	"smartinvest/internal/provider"
	"smartinvest/internal/types"
)

const (
	baseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests without a browser user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Provider serves prices and fundamentals for one Yahoo session.
type Provider struct {
	client *api.Client
}

var (
	_ provider.PriceProvider        = (*Provider)(nil)
	_ provider.FundamentalsProvider = (*Provider)(nil)
)

// New creates a Yahoo provider with its own HTTP client.
func New(timeout time.Duration) *Provider {
	return &Provider{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithHeader("User-Agent", userAgent),
			api.WithLogging(true),
		),
	}
}

// chartResponse mirrors the v8 chart endpoint. Individual quote fields
// arrive as nullable arrays aligned with the timestamp array.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// rawNum is Yahoo's numeric envelope. A missing key decodes to a nil
// Raw, preserving the absent-vs-zero distinction.
type rawNum struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName          string `json:"shortName"`
				LongName           string `json:"longName"`
				RegularMarketPrice rawNum `json:"regularMarketPrice"`
				MarketCap          rawNum `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE    rawNum `json:"trailingPE"`
				ForwardPE     rawNum `json:"forwardPE"`
				PriceToSales  rawNum `json:"priceToSalesTrailing12Months"`
				DividendYield rawNum `json:"dividendYield"`
				PayoutRatio   rawNum `json:"payoutRatio"`
				MarketCap     rawNum `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				EnterpriseValue     rawNum `json:"enterpriseValue"`
				PriceToBook         rawNum `json:"priceToBook"`
				EnterpriseToRevenue rawNum `json:"enterpriseToRevenue"`
				EnterpriseToEBITDA  rawNum `json:"enterpriseToEbitda"`
				ProfitMargins       rawNum `json:"profitMargins"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				OperatingMargins rawNum `json:"operatingMargins"`
				ProfitMargins    rawNum `json:"profitMargins"`
				ReturnOnAssets   rawNum `json:"returnOnAssets"`
				ReturnOnEquity   rawNum `json:"returnOnEquity"`
				RevenueGrowth    rawNum `json:"revenueGrowth"`
				EarningsGrowth   rawNum `json:"earningsGrowth"`
				DebtToEquity     rawNum `json:"debtToEquity"`
				CurrentRatio     rawNum `json:"currentRatio"`
				QuickRatio       rawNum `json:"quickRatio"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// History returns up to days of daily bars, oldest first. Bars with a
// null close are dropped. An unknown symbol yields an empty series.
func (p *Provider) History(ctx context.Context, symbol string, days int) ([]types.PriceBar, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(symbol), rangeForDays(days))

	var resp chartResponse
	if err := p.client.GetJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("yahoo chart request for %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		logger.Warn(ctx, "Yahoo chart returned error payload",
			"symbol", symbol, "code", resp.Chart.Error.Code)
		return nil, nil
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]types.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := types.PriceBar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Quote returns the latest traded state derived from a short chart
// window. A symbol with no data returns nil without error.
func (p *Provider) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	bars, err := p.History(ctx, symbol, 5)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}

	latest := bars[len(bars)-1]
	q := &types.Quote{
		Symbol:    symbol,
		Price:     latest.Close,
		Volume:    latest.Volume,
		Timestamp: latest.Timestamp,
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		q.Change = latest.Close - prev
		if prev != 0 {
			q.ChangePercent = q.Change / prev * 100
		}
	}
	return q, nil
}

// Fundamentals fetches the ratio modules for a symbol. Ratios Yahoo
// does not disclose stay nil.
func (p *Provider) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	path := fmt.Sprintf(
		"/v10/finance/quoteSummary/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		url.PathEscape(symbol))

	var resp quoteSummaryResponse
	if err := p.client.GetJSON(ctx, path, &resp); err != nil {
		return types.Fundamentals{}, fmt.Errorf("yahoo quoteSummary request for %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return types.Fundamentals{}, nil
	}
	result := resp.QuoteSummary.Result[0]

	var f types.Fundamentals
	if price := result.Price; price != nil {
		f.MarketCap = price.MarketCap.Raw
	}
	if sd := result.SummaryDetail; sd != nil {
		f.TrailingPE = sd.TrailingPE.Raw
		f.ForwardPE = sd.ForwardPE.Raw
		f.PriceToSales = sd.PriceToSales.Raw
		f.DividendYield = sd.DividendYield.Raw
		f.PayoutRatio = sd.PayoutRatio.Raw
		if f.MarketCap == nil {
			f.MarketCap = sd.MarketCap.Raw
		}
	}
	if ks := result.DefaultKeyStatistics; ks != nil {
		f.EnterpriseValue = ks.EnterpriseValue.Raw
		f.PriceToBook = ks.PriceToBook.Raw
		f.EnterpriseToRevenue = ks.EnterpriseToRevenue.Raw
		f.EnterpriseToEBITDA = ks.EnterpriseToEBITDA.Raw
		f.ProfitMargins = ks.ProfitMargins.Raw
	}
	if fd := result.FinancialData; fd != nil {
		f.OperatingMargins = fd.OperatingMargins.Raw
		f.ReturnOnAssets = fd.ReturnOnAssets.Raw
		f.ReturnOnEquity = fd.ReturnOnEquity.Raw
		f.RevenueGrowth = fd.RevenueGrowth.Raw
		f.EarningsGrowth = fd.EarningsGrowth.Raw
		f.DebtToEquity = fd.DebtToEquity.Raw
		f.CurrentRatio = fd.CurrentRatio.Raw
		f.QuickRatio = fd.QuickRatio.Raw
		if f.ProfitMargins == nil {
			f.ProfitMargins = fd.ProfitMargins.Raw
		}
	}
	return f, nil
}

func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}
