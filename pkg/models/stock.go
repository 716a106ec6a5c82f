package models

import "time"

// StockSnapshot is a point-in-time quote for a single symbol. Snapshots are
// never mutated; a new fetch produces a new snapshot.
type StockSnapshot struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"current_price"`
	PrevClose float64   `json:"previous_close"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_percent"`
	Volume    int64     `json:"volume"`
	MarketCap float64   `json:"market_cap,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceHistory summarizes a symbol's recent price action.
type PriceHistory struct {
	Symbol    string  `json:"symbol"`
	Period    string  `json:"period"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	AvgVolume int64   `json:"avg_volume"`
	Candles   []OHLCV `json:"price_data"`
}

// CompanyStockData bundles everything the market data provider knows about
// a company for one evidence section.
type CompanyStockData struct {
	Company string         `json:"company"`
	Symbol  string         `json:"symbol"`
	Current *StockSnapshot `json:"current"`
	History *PriceHistory  `json:"history,omitempty"`
}
