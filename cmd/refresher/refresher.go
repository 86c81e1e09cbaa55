// Package refresher revalues every persisted simulator account against the
// live ticker feed. It is the server-side twin of the in-session refresh loop:
// accounts keep moving with the market even while their owners are offline.
package refresher

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"neurocrypt/src/database"
	"neurocrypt/src/executors"
	"neurocrypt/src/marketdata"
	"neurocrypt/src/model"
	"neurocrypt/src/repository"
	"neurocrypt/src/simulator"
)

type stateRepository interface {
	ListAll(ctx context.Context) ([]model.SimulatorState, error)
	Save(ctx context.Context, userID uint, stateJSON string) error
}

type tickerFeed interface {
	USDTTickers(ctx context.Context) ([]model.CryptoTicker, error)
}

type Refresher struct {
	Log *logrus.Entry
}

func (t *Refresher) Start() error {
	config := executors.GetConfig()
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := database.InitMainDB(); err != nil {
		t.Log.WithError(err).Error("Failed to connect to main database")
		return err
	}

	repo := repository.NewSimulatorStateRepository()
	feed := marketdata.NewBinanceClient(marketdata.GetConfig().BinanceBaseURL)

	ticker := time.NewTicker(config.LoopPeriod)
	defer ticker.Stop()

	t.refreshAll(ctx, repo, feed)

	for {
		select {
		case <-ctx.Done():
			t.Log.Info("refresher stopped")
			return nil

		case <-ticker.C:
			t.Log.Info("refresher tick")
			t.refreshAll(ctx, repo, feed)
		}
	}
}

// refreshAll runs one pass over every persisted account. Accounts that fail
// to parse or save are skipped; one bad row must not stall the rest.
func (t *Refresher) refreshAll(ctx context.Context, repo stateRepository, feed tickerFeed) {
	tickers, err := feed.USDTTickers(ctx)
	if err != nil {
		t.Log.WithError(err).Error("Failed to fetch tickers, skipping pass")
		return
	}

	prices := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		prices[ticker.Symbol] = ticker.Price
	}

	states, err := repo.ListAll(ctx)
	if err != nil {
		t.Log.WithError(err).Error("Failed to list simulator states")
		return
	}

	now := time.Now()
	refreshed := 0
	for _, state := range states {
		var account simulator.Account
		if err := json.Unmarshal([]byte(state.StateJSON), &account); err != nil {
			t.Log.WithError(err).
				WithField("user_id", state.UserID).
				Warn("Skipping unparsable simulator state")
			continue
		}

		if account.ApplyPrices(prices, now) == 0 {
			continue
		}

		updated, err := json.Marshal(account)
		if err != nil {
			t.Log.WithError(err).
				WithField("user_id", state.UserID).
				Error("Failed to marshal refreshed account")
			continue
		}

		if err := repo.Save(ctx, state.UserID, string(updated)); err != nil {
			t.Log.WithError(err).
				WithField("user_id", state.UserID).
				Error("Failed to save refreshed account")
			continue
		}
		refreshed++
	}

	t.Log.WithFields(map[string]interface{}{
		"accounts":  len(states),
		"refreshed": refreshed,
		"symbols":   len(prices),
	}).Info("refresh pass complete")
}
