package marketdata

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/shopspring/decimal"

	"neurocrypt/src/model"
)

const chartDateLayout = "2006-01-02 15:04:05"

// KlineClient fetches OHLCV history for chart rendering.
type KlineClient struct {
	exchange goex.API
}

func NewKlineClient() *KlineClient {
	apiConfig := &goex.APIConfig{
		HttpClient: &http.Client{Timeout: historyTimeout},
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return &KlineClient{exchange: binance.NewWithConfig(apiConfig)}
}

// History fetches candles for a USDT-quoted symbol at the given interval and
// returns both the close-price series for line/bar charts and the full OHLCV
// bars for candlestick charts. The number of points requested follows the
// per-interval budgets of the chart view.
func (c *KlineClient) History(symbol, interval string, candlestick bool) ([]model.PricePoint, []model.Candle, error) {
	base, ok := strings.CutSuffix(symbol, quoteSuffix)
	if !ok || base == "" {
		return nil, nil, fmt.Errorf("symbol %s is not USDT-quoted", symbol)
	}

	period, err := klinePeriod(interval)
	if err != nil {
		return nil, nil, err
	}

	pair := goex.NewCurrencyPair(goex.Currency{Symbol: base}, goex.Currency{Symbol: quoteSuffix})
	klines, err := c.exchange.GetKlineRecords(pair, period, HistoryLimit(interval, candlestick))
	if err != nil {
		return nil, nil, err
	}

	points := make([]model.PricePoint, 0, len(klines))
	candles := make([]model.Candle, 0, len(klines))
	for i := range klines {
		k := klines[i]
		date := time.Unix(k.Timestamp, 0).UTC().Format(chartDateLayout)
		points = append(points, model.PricePoint{Date: date, Price: k.Close})
		candles = append(candles, model.Candle{
			Date:   date,
			Open:   decimal.NewFromFloat(k.Open),
			High:   decimal.NewFromFloat(k.High),
			Low:    decimal.NewFromFloat(k.Low),
			Close:  decimal.NewFromFloat(k.Close),
			Volume: decimal.NewFromFloat(k.Vol),
		})
	}

	return points, candles, nil
}

// HistoryLimit is the number of points fetched per interval. The candlestick
// budgets are lower for the dense intervals so the bars stay readable.
func HistoryLimit(interval string, candlestick bool) int {
	if candlestick {
		switch interval {
		case "1m":
			return 240
		case "5m":
			return 144
		case "15m":
			return 96
		case "30m":
			return 48
		case "1h":
			return 24
		case "4h":
			return 42
		case "1d":
			return 30
		case "1w":
			return 52
		default:
			return 100
		}
	}

	switch interval {
	case "1m":
		return 1440
	case "5m":
		return 288
	case "15m":
		return 96
	case "30m":
		return 48
	case "1h":
		return 24
	case "4h":
		return 42
	case "1d":
		return 7
	case "1w":
		return 52
	default:
		return 100
	}
}

func klinePeriod(interval string) (goex.KlinePeriod, error) {
	switch interval {
	case "1m":
		return goex.KLINE_PERIOD_1MIN, nil
	case "5m":
		return goex.KLINE_PERIOD_5MIN, nil
	case "15m":
		return goex.KLINE_PERIOD_15MIN, nil
	case "30m":
		return goex.KLINE_PERIOD_30MIN, nil
	case "1h":
		return goex.KLINE_PERIOD_1H, nil
	case "4h":
		return goex.KLINE_PERIOD_4H, nil
	case "1d":
		return goex.KLINE_PERIOD_1DAY, nil
	case "1w":
		return goex.KLINE_PERIOD_1WEEK, nil
	default:
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
}
