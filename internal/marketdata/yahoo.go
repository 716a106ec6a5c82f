package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/chipsight/chipsight/pkg/models"
)

const (
	quoteTTL    = 2 * time.Minute
	intradayTTL = 1 * time.Minute
	historyTTL  = 15 * time.Minute

	// maxIntradayAge bounds how old the latest 1-minute candle may be
	// before a lookback price is considered stale. One candle interval
	// plus a grace period for feed delay.
	maxIntradayAge = 90 * time.Second

	historyCandles = 5
)

// Quote fetches a real-time snapshot for a symbol from the v7 quote API.
// When the API omits a previous close the current price stands in for it,
// which yields a zero change rather than a failed fetch.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.StockSnapshot, error) {
	cacheKey := "quote:" + symbol
	if v, ok := c.cache.get(cacheKey); ok {
		return v.(*models.StockSnapshot), nil
	}

	url := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, symbol)
	var resp yfQuoteResponse
	if err := c.fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote %s: %s", symbol, resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}

	r := resp.QuoteResponse.Result[0]
	prev := r.RegularMarketPreviousClose
	if prev == 0 {
		prev = r.RegularMarketPrice
	}
	snap := &models.StockSnapshot{
		Symbol:    symbol,
		Price:     round2(r.RegularMarketPrice),
		PrevClose: round2(prev),
		Change:    round2(r.RegularMarketPrice - prev),
		ChangePct: changePercent(r.RegularMarketPrice, prev),
		Volume:    r.RegularMarketVolume,
		MarketCap: r.MarketCap,
		Timestamp: time.Unix(r.RegularMarketTime, 0),
	}
	c.cache.set(cacheKey, snap, quoteTTL)
	return snap, nil
}

// PriceAt returns the price roughly minutesBack minutes ago by indexing
// back through today's 1-minute candles. Returns ErrStale when the latest
// candle is older than maxIntradayAge.
func (c *Client) PriceAt(ctx context.Context, symbol string, minutesBack int) (float64, time.Time, error) {
	candles, err := c.intraday(ctx, symbol)
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(candles) == 0 {
		return 0, time.Time{}, fmt.Errorf("intraday %s: %w", symbol, ErrNoData)
	}

	last := candles[len(candles)-1]
	if time.Since(last.Timestamp) > maxIntradayAge {
		return 0, time.Time{}, fmt.Errorf("intraday %s: %w", symbol, ErrStale)
	}

	idx := len(candles) - 1 - minutesBack
	if idx < 0 {
		idx = 0
	}
	return candles[idx].Close, candles[idx].Timestamp, nil
}

// History fetches a summarized price history for the given period string
// (e.g. "5d", "3d"). The candle list keeps only the most recent entries.
func (c *Client) History(ctx context.Context, symbol, period string) (*models.PriceHistory, error) {
	cacheKey := "history:" + symbol + ":" + period
	if v, ok := c.cache.get(cacheKey); ok {
		return v.(*models.PriceHistory), nil
	}

	candles, err := c.chart(ctx, symbol, period, "1d")
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, ErrNoData)
	}

	h := &models.PriceHistory{Symbol: symbol, Period: period}
	var volSum int64
	for _, cd := range candles {
		if h.High == 0 || cd.High > h.High {
			h.High = cd.High
		}
		if h.Low == 0 || (cd.Low > 0 && cd.Low < h.Low) {
			h.Low = cd.Low
		}
		volSum += cd.Volume
	}
	h.High = round2(h.High)
	h.Low = round2(h.Low)
	h.AvgVolume = volSum / int64(len(candles))
	if len(candles) > historyCandles {
		candles = candles[len(candles)-historyCandles:]
	}
	h.Candles = candles

	c.cache.set(cacheKey, h, historyTTL)
	return h, nil
}

// CompanyData resolves a company name and bundles its snapshot and history.
// A history failure is tolerated; a quote failure is not.
func (c *Client) CompanyData(ctx context.Context, company string) (*models.CompanyStockData, error) {
	symbol, ok := ResolveSymbol(company)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, company)
	}

	snap, err := c.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	data := &models.CompanyStockData{
		Company: company,
		Symbol:  symbol,
		Current: snap,
	}
	if hist, err := c.History(ctx, symbol, "5d"); err == nil {
		data.History = hist
	}
	return data, nil
}

// intraday fetches today's 1-minute candles, skipping gaps where the feed
// reports no trade.
func (c *Client) intraday(ctx context.Context, symbol string) ([]models.OHLCV, error) {
	cacheKey := "intraday:" + symbol
	if v, ok := c.cache.get(cacheKey); ok {
		return v.([]models.OHLCV), nil
	}
	candles, err := c.chart(ctx, symbol, "1d", "1m")
	if err != nil {
		return nil, err
	}
	c.cache.set(cacheKey, candles, intradayTTL)
	return candles, nil
}

// chart fetches OHLCV candles from the v8 chart API.
func (c *Client) chart(ctx context.Context, symbol, rng, interval string) ([]models.OHLCV, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", c.baseURL, symbol, rng, interval)
	var resp yfChartResponse
	if err := c.fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: %w", symbol, ErrNoData)
	}
	return parseCandles(resp.Chart.Result[0]), nil
}

// parseCandles converts a chart result into OHLCV bars, dropping timestamps
// with no close price.
func parseCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		bar := models.OHLCV{
			Timestamp: time.Unix(ts, 0),
			Close:     round2(*q.Close[i]),
		}
		if i < len(q.Open) && q.Open[i] != nil {
			bar.Open = round2(*q.Open[i])
		}
		if i < len(q.High) && q.High[i] != nil {
			bar.High = round2(*q.High[i])
		}
		if i < len(q.Low) && q.Low[i] != nil {
			bar.Low = round2(*q.Low[i])
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		candles = append(candles, bar)
	}
	return candles
}

// changePercent computes (current-prev)/prev*100 rounded to 2 decimals.
// A zero previous close yields zero rather than a division blowup.
func changePercent(current, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return round2((current - prev) / prev * 100)
}

// ── Wire types ──

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol                     string  `json:"symbol"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	RegularMarketTime          int64   `json:"regularMarketTime"`
	MarketCap                  float64 `json:"marketCap"`
}

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
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
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
