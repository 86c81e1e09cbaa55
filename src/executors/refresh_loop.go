package executors

import (
	"context"
	"time"

	"neurocrypt/src/model"

	logger "github.com/sirupsen/logrus"
)

type tickerFeed interface {
	USDTTickers(ctx context.Context) ([]model.CryptoTicker, error)
}

type valuationTarget interface {
	RefreshValuations(ctx context.Context, prices map[string]float64)
	HeldSymbols() []string
}

// StartLoop keeps the simulator's position valuations in sync with the live
// feed. It refreshes once immediately, then on every tick until the context
// is cancelled.
func StartLoop(ctx context.Context, manager valuationTarget, feed tickerFeed) error {
	config := GetConfig()

	ticker := time.NewTicker(config.LoopPeriod)
	defer ticker.Stop()

	refreshOnce(ctx, manager, feed, config.TopTickers)

	for {
		select {
		case <-ctx.Done():
			logger.Println("loop stopped")
			return nil

		case <-ticker.C:
			logger.Info("loop tick")
			refreshOnce(ctx, manager, feed, config.TopTickers)
		}
	}
}

// refreshOnce fetches current tickers and pushes fresh prices into the
// simulator. The price map covers the top tickers plus any symbols the
// account currently holds, so positions outside the top list still get
// revalued. A failed fetch is logged and skipped; stale valuations are
// preferred over a crashed loop.
func refreshOnce(ctx context.Context, manager valuationTarget, feed tickerFeed, topLimit int) {
	tickers, err := feed.USDTTickers(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch tickers, keeping stale valuations")
		return
	}

	held := make(map[string]bool)
	for _, symbol := range manager.HeldSymbols() {
		held[symbol] = true
	}

	prices := make(map[string]float64)
	for i, ticker := range tickers {
		if i < topLimit || held[ticker.Symbol] {
			prices[ticker.Symbol] = ticker.Price
		}
	}

	if len(prices) == 0 {
		logger.Warn("ticker feed returned no usable prices")
		return
	}

	manager.RefreshValuations(ctx, prices)
}
