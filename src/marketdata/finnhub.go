package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"neurocrypt/src/model"
)

const finnhubTimeout = 20 * time.Second

// topStockSymbols is the fixed watchlist the stock view quotes. The quote
// endpoint has no "top symbols" listing, so the set is curated.
var topStockSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA", "META", "NVDA", "NFLX", "AMD", "INTC",
	"JPM", "JNJ", "V", "PG", "UNH", "HD", "MA", "DIS", "PYPL", "BAC",
}

// FinnhubClient reads stock quotes and daily candles from Finnhub.
type FinnhubClient struct {
	http   *resty.Client
	apiKey string
}

func NewFinnhubClient(baseURL, apiKey string) *FinnhubClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = GetConfig().FinnhubBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(finnhubTimeout)

	return &FinnhubClient{http: httpClient, apiKey: apiKey}
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	Volume        float64 `json:"v"`
}

type finnhubCandles struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Closes     []float64 `json:"c"`
}

// Quote fetches a single stock snapshot.
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (model.StockQuote, error) {
	if c.apiKey == "" {
		return model.StockQuote{}, fmt.Errorf("finnhub API key not configured")
	}

	var quote finnhubQuote
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  c.apiKey,
		}).
		SetResult(&quote).
		Get("/quote")
	if err != nil {
		return model.StockQuote{}, err
	}
	if resp.IsError() {
		return model.StockQuote{}, fmt.Errorf("finnhub returned status %d", resp.StatusCode())
	}
	if quote.Current == 0 {
		return model.StockQuote{}, fmt.Errorf("no quote data for %s", symbol)
	}

	return model.StockQuote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         quote.Current,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		MarketCap:     quote.Current * 1000000,
		Volume:        quote.Volume,
	}, nil
}

// TopStocks quotes the curated watchlist, skipping symbols that fail.
func (c *FinnhubClient) TopStocks(ctx context.Context, limit int) ([]model.StockQuote, error) {
	if limit <= 0 || limit > len(topStockSymbols) {
		limit = len(topStockSymbols)
	}

	quotes := make([]model.StockQuote, 0, limit)
	for _, symbol := range topStockSymbols[:limit] {
		quote, err := c.Quote(ctx, symbol)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Warn("failed to fetch stock quote")
			continue
		}
		quotes = append(quotes, quote)
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("no stock data available")
	}
	return quotes, nil
}

// History fetches daily close prices for the last days days.
func (c *FinnhubClient) History(ctx context.Context, symbol string, days int) ([]model.PricePoint, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if days <= 0 {
		days = 30
	}

	end := time.Now().Unix()
	start := end - int64(days)*24*60*60

	var candles finnhubCandles
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"resolution": "D",
			"from":       fmt.Sprintf("%d", start),
			"to":         fmt.Sprintf("%d", end),
			"token":      c.apiKey,
		}).
		SetResult(&candles).
		Get("/stock/candle")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finnhub returned status %d", resp.StatusCode())
	}
	if candles.Status != "ok" || len(candles.Timestamps) == 0 {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}

	points := make([]model.PricePoint, 0, len(candles.Timestamps))
	for i := range candles.Timestamps {
		if i >= len(candles.Closes) {
			break
		}
		points = append(points, model.PricePoint{
			Date:  time.Unix(candles.Timestamps[i], 0).UTC().Format("2006-01-02"),
			Price: candles.Closes[i],
		})
	}
	return points, nil
}
