package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Load warnings surfaced to the caller. None of them is fatal: the manager
// always leaves the user with a usable (possibly default) account.
const (
	WarnNoSavedState = "No saved simulator data found, starting fresh."
	WarnCorruptState = "Error parsing saved simulator data."
	WarnLoadFailed   = "Unable to load simulator data. Please try again."
	WarnSaveFailed   = "Failed to save simulator data."
	WarnDeleteFailed = "Failed to reset account. Please try again."
)

// Manager owns one Account and keeps it consistent across buys, sells,
// valuation refreshes and resets. All state changes are applied locally first
// and then pushed to the profile store; a failed save never rolls back local
// state. Saves are gated until the initial Load has completed so a fresh
// default account cannot clobber valid remote state.
type Manager struct {
	mu sync.Mutex

	log   *logrus.Entry
	store StateStore

	account Account
	prices  map[string]float64
	loaded  bool
	saveErr error

	now   func() time.Time
	newID func() string
}

// NewManager creates a manager in the Uninitialized state. Load must be called
// before any operation is persisted.
func NewManager(log *logrus.Entry, store StateStore) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	m := &Manager{
		log:    log,
		store:  store,
		prices: map[string]float64{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	m.account = NewAccount(m.now())
	return m
}

// Load fetches the persisted account. Missing state, corrupt state and fetch
// failures all fall back to a default account; the returned warning tells them
// apart ("" means a saved account was restored cleanly). Load always opens the
// save gate, success or not.
func (m *Manager) Load(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	warning := ""
	account, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptState):
		m.log.WithError(err).Warn("stored simulator state is corrupt, falling back to defaults")
		m.account = NewAccount(m.now())
		warning = WarnCorruptState
	case err != nil:
		m.log.WithError(err).Error("failed to load simulator state")
		m.account = NewAccount(m.now())
		warning = WarnLoadFailed
	case account == nil:
		m.account = NewAccount(m.now())
		warning = WarnNoSavedState
	default:
		m.account = *account
		m.log.WithFields(map[string]interface{}{
			"positions":    len(account.Portfolio),
			"transactions": len(account.Transactions),
			"balance":      account.CurrentBalance,
		}).Info("simulator state restored")
	}

	m.loaded = true
	return warning
}

// Buy converts usdAmount of cash into a new position at the latest known price
// for symbol. It is a silent no-op when no price is known, the amount is not
// positive, or the amount exceeds available cash; these are form-validation
// conditions, not errors. Returns whether the buy was applied.
func (m *Manager) Buy(ctx context.Context, symbol string, usdAmount float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	price, ok := m.prices[symbol]
	if !ok || price <= 0 || usdAmount <= 0 || usdAmount > m.account.CurrentBalance {
		m.log.WithFields(map[string]interface{}{
			"symbol":     symbol,
			"usd_amount": usdAmount,
			"balance":    m.account.CurrentBalance,
			"has_price":  ok,
		}).Debug("buy rejected")
		return false
	}

	now := m.now()
	quantity := usdAmount / price
	id := m.newID()

	m.account.Portfolio = append(m.account.Portfolio, Position{
		ID:           id,
		Symbol:       symbol,
		Name:         symbol,
		Quantity:     quantity,
		BuyPrice:     price,
		CurrentPrice: price,
		TotalValue:   usdAmount,
		BuyDate:      now,
	})
	m.prependTransaction(Transaction{
		ID:       id,
		Type:     TransactionBuy,
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
		Total:    usdAmount,
		Date:     now,
	})
	m.account.CurrentBalance -= usdAmount
	m.account.LastUpdate = now

	m.log.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"quantity": quantity,
		"price":    price,
		"total":    usdAmount,
	}).Info("position opened")

	m.persistLocked(ctx)
	return true
}

// Sell closes the position with the given id at its cached current price and
// credits the proceeds to cash. Silent no-op when the position does not exist.
// Returns whether the sell was applied.
func (m *Manager) Sell(ctx context.Context, positionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.account.Portfolio {
		if m.account.Portfolio[i].ID == positionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.log.WithField("position_id", positionID).Debug("sell rejected, position not found")
		return false
	}

	now := m.now()
	pos := m.account.Portfolio[idx]
	proceeds := pos.Quantity * pos.CurrentPrice

	m.account.CurrentBalance += proceeds
	m.account.Portfolio = append(m.account.Portfolio[:idx], m.account.Portfolio[idx+1:]...)
	m.prependTransaction(Transaction{
		ID:       m.newID(),
		Type:     TransactionSell,
		Symbol:   pos.Symbol,
		Quantity: pos.Quantity,
		Price:    pos.CurrentPrice,
		Total:    proceeds,
		Date:     now,
	})
	m.account.LastUpdate = now

	m.log.WithFields(map[string]interface{}{
		"symbol":   pos.Symbol,
		"quantity": pos.Quantity,
		"proceeds": proceeds,
	}).Info("position closed")

	m.persistLocked(ctx)
	return true
}

// RefreshValuations revalues every open position whose symbol appears in the
// supplied price map and remembers the map for subsequent buys. Symbols absent
// from the feed are left untouched rather than zeroed, so a feed gap never
// shows up as a phantom loss.
func (m *Manager) RefreshValuations(ctx context.Context, prices map[string]float64) {
	if len(prices) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for symbol, price := range prices {
		m.prices[symbol] = price
	}

	updated := m.account.ApplyPrices(prices, m.now())
	if updated > 0 {
		m.log.WithField("positions", updated).Debug("valuations refreshed")
		m.persistLocked(ctx)
	}
}

// Reset deletes the remote copy and reinitializes the local account to
// defaults. Local state is reset even when the remote delete fails
// (local-first); the returned warning is non-empty in that case.
func (m *Manager) Reset(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	warning := ""
	if err := m.store.Delete(ctx); err != nil {
		m.log.WithError(err).Error("failed to delete remote simulator state")
		warning = WarnDeleteFailed
	}

	m.account = NewAccount(m.now())
	m.saveErr = nil
	m.log.Info("account reset to defaults")
	return warning
}

// Persist pushes the current account to the profile store. No-op before Load
// has completed. Meant for opportunistic flushes (page-hide, shutdown); state
// changing operations already persist on their own.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.persistLocked(ctx)
	return m.saveErr
}

// LastSaveError reports the outcome of the most recent persist attempt.
// Nil after a successful save.
func (m *Manager) LastSaveError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveErr
}

// Snapshot returns a copy of the account for rendering.
func (m *Manager) Snapshot() Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account.Clone()
}

// HeldSymbols lists the symbols of all open positions, deduplicated.
func (m *Manager) HeldSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]bool{}
	symbols := []string{}
	for i := range m.account.Portfolio {
		s := m.account.Portfolio[i].Symbol
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func (m *Manager) prependTransaction(tx Transaction) {
	m.account.Transactions = append([]Transaction{tx}, m.account.Transactions...)
}

// persistLocked saves under the caller's lock. Failures are recorded and
// reported as a soft error; local state stays authoritative for the session.
func (m *Manager) persistLocked(ctx context.Context) {
	if !m.loaded {
		m.log.Debug("persist skipped, initial load not completed")
		return
	}

	if err := m.store.Save(ctx, m.account.Clone()); err != nil {
		m.log.WithError(err).Error("failed to save simulator state")
		m.saveErr = err
		return
	}
	m.saveErr = nil
}
