package model

import "github.com/shopspring/decimal"

// CryptoTicker is one tradable symbol from the public market-data feed.
type CryptoTicker struct {
	Symbol             string  `json:"symbol"`
	Price              float64 `json:"price"`
	PriceChangePercent float64 `json:"priceChangePercent"`
	MarketCap          float64 `json:"marketCap"`
	Volume             float64 `json:"volume"`
}

// StockQuote is a single stock snapshot from the stock-data provider.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	MarketCap     float64 `json:"marketCap"`
	Volume        float64 `json:"volume"`
}

// PricePoint is one close price in a chart series.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Candle is one OHLCV bar. Values are decimals because the exchange encodes
// them as strings and float re-encoding would drift.
type Candle struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}
