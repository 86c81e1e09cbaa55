package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"neurocrypt/src/model"
)

const (
	ticker24hPath = "/api/v3/ticker/24hr"
	quoteSuffix   = "USDT"

	historyTimeout = 10 * time.Second
)

// ticker24h is one entry of the Binance 24h ticker payload. Binance encodes
// every numeric field as a string.
type ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
	Volume             string `json:"volume"`
}

// BinanceClient reads public market data from the Binance REST API.
// No API key is required for the endpoints it uses.
type BinanceClient struct {
	http *resty.Client
}

func NewBinanceClient(baseURL string) *BinanceClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = GetConfig().BinanceBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(historyTimeout)

	return &BinanceClient{http: httpClient}
}

// USDTTickers returns every USDT-quoted symbol ordered by quote volume
// descending. Quote volume stands in for market cap, which the public API
// does not expose.
func (c *BinanceClient) USDTTickers(ctx context.Context) ([]model.CryptoTicker, error) {
	var raw []ticker24h
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(ticker24hPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("binance returned status %d", resp.StatusCode())
	}

	tickers := make([]model.CryptoTicker, 0, len(raw))
	for i := range raw {
		if !strings.HasSuffix(raw[i].Symbol, quoteSuffix) {
			continue
		}
		ticker, err := raw[i].toModel()
		if err != nil {
			logger.WithError(err).
				WithField("symbol", raw[i].Symbol).
				Warn("skipping unparsable ticker")
			continue
		}
		tickers = append(tickers, ticker)
	}

	sort.Slice(tickers, func(i, j int) bool {
		return tickers[i].MarketCap > tickers[j].MarketCap
	})

	return tickers, nil
}

// TopTickers returns the limit highest-volume USDT tickers.
func (c *BinanceClient) TopTickers(ctx context.Context, limit int) ([]model.CryptoTicker, error) {
	if limit <= 0 {
		limit = GetConfig().TopCryptoLimit
	}

	tickers, err := c.USDTTickers(ctx)
	if err != nil {
		return nil, err
	}
	if len(tickers) > limit {
		tickers = tickers[:limit]
	}
	return tickers, nil
}

func (t *ticker24h) toModel() (model.CryptoTicker, error) {
	price, err := decimal.NewFromString(t.LastPrice)
	if err != nil {
		return model.CryptoTicker{}, fmt.Errorf("lastPrice: %w", err)
	}
	changePct, err := decimal.NewFromString(t.PriceChangePercent)
	if err != nil {
		return model.CryptoTicker{}, fmt.Errorf("priceChangePercent: %w", err)
	}
	quoteVolume, err := decimal.NewFromString(t.QuoteVolume)
	if err != nil {
		return model.CryptoTicker{}, fmt.Errorf("quoteVolume: %w", err)
	}
	volume, err := decimal.NewFromString(t.Volume)
	if err != nil {
		return model.CryptoTicker{}, fmt.Errorf("volume: %w", err)
	}

	return model.CryptoTicker{
		Symbol:             t.Symbol,
		Price:              price.InexactFloat64(),
		PriceChangePercent: changePct.InexactFloat64(),
		MarketCap:          quoteVolume.InexactFloat64(),
		Volume:             volume.InexactFloat64(),
	}, nil
}
