package simulator

import "time"

// DefaultInitialBalance is the virtual cash a fresh account starts with.
const DefaultInitialBalance = 100000

// Position is one open holding. Valuation fields (CurrentPrice, TotalValue,
// ProfitLoss, ProfitLossPercent) are derived from the latest price feed and
// refreshed in place; Quantity and BuyPrice never change after the buy.
type Position struct {
	ID                string    `json:"id"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Quantity          float64   `json:"quantity"`
	BuyPrice          float64   `json:"buyPrice"`
	CurrentPrice      float64   `json:"currentPrice"`
	TotalValue        float64   `json:"totalValue"`
	ProfitLoss        float64   `json:"profitLoss"`
	ProfitLossPercent float64   `json:"profitLossPercent"`
	BuyDate           time.Time `json:"buyDate"`
}

const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction is an immutable record of an executed buy or sell.
type Transaction struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Symbol   string    `json:"symbol"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Total    float64   `json:"total"`
	Date     time.Time `json:"date"`
}

// Account is the aggregate for one user's paper-trading session. The JSON
// shape is the wire format of the profile store and must stay stable.
// Transactions are kept newest-first.
type Account struct {
	Portfolio      []Position    `json:"portfolio"`
	Transactions   []Transaction `json:"transactions"`
	CurrentBalance float64       `json:"currentBalance"`
	InitialBalance float64       `json:"initialBalance"`
	LastUpdate     time.Time     `json:"lastUpdate"`
}

// NewAccount returns a fresh account with the default starting cash.
func NewAccount(now time.Time) Account {
	return Account{
		Portfolio:      []Position{},
		Transactions:   []Transaction{},
		CurrentBalance: DefaultInitialBalance,
		InitialBalance: DefaultInitialBalance,
		LastUpdate:     now,
	}
}

// PortfolioValue is the sum of all open positions at their latest valuation.
func (a *Account) PortfolioValue() float64 {
	total := 0.0
	for i := range a.Portfolio {
		total += a.Portfolio[i].TotalValue
	}
	return total
}

// AccountValue is cash plus open portfolio value.
func (a *Account) AccountValue() float64 {
	return a.CurrentBalance + a.PortfolioValue()
}

// TotalReturn is the account value change since account creation.
func (a *Account) TotalReturn() float64 {
	return a.AccountValue() - a.InitialBalance
}

func (a *Account) TotalReturnPercent() float64 {
	if a.InitialBalance == 0 {
		return 0
	}
	return a.TotalReturn() / a.InitialBalance * 100
}

// OpenProfitLoss is the unrealized P&L across open positions.
func (a *Account) OpenProfitLoss() float64 {
	total := 0.0
	for i := range a.Portfolio {
		total += a.Portfolio[i].ProfitLoss
	}
	return total
}

// OpenProfitLossPercent is unrealized P&L relative to invested cost.
func (a *Account) OpenProfitLossPercent() float64 {
	invested := 0.0
	for i := range a.Portfolio {
		invested += a.Portfolio[i].Quantity * a.Portfolio[i].BuyPrice
	}
	if invested == 0 {
		return 0
	}
	return a.OpenProfitLoss() / invested * 100
}

// BestPerformer returns the open position with the highest P&L percent.
// Returns (nil, false) when the portfolio is empty.
func (a *Account) BestPerformer() (*Position, bool) {
	if len(a.Portfolio) == 0 {
		return nil, false
	}
	best := &a.Portfolio[0]
	for i := 1; i < len(a.Portfolio); i++ {
		if a.Portfolio[i].ProfitLossPercent > best.ProfitLossPercent {
			best = &a.Portfolio[i]
		}
	}
	return best, true
}

// Diversification is the number of distinct open positions.
func (a *Account) Diversification() int {
	return len(a.Portfolio)
}

// ApplyPrices revalues every open position whose symbol appears in the price
// map and returns how many were updated. Symbols absent from the map are left
// untouched. LastUpdate is only advanced when at least one position changed.
func (a *Account) ApplyPrices(prices map[string]float64, now time.Time) int {
	updated := 0
	for i := range a.Portfolio {
		pos := &a.Portfolio[i]
		price, ok := prices[pos.Symbol]
		if !ok {
			continue
		}
		pos.CurrentPrice = price
		pos.TotalValue = pos.Quantity * price
		pos.ProfitLoss = pos.TotalValue - pos.Quantity*pos.BuyPrice
		pos.ProfitLossPercent = (price - pos.BuyPrice) / pos.BuyPrice * 100
		updated++
	}
	if updated > 0 {
		a.LastUpdate = now
	}
	return updated
}

// Clone returns a deep copy safe to hand out while the account keeps mutating.
func (a *Account) Clone() Account {
	out := *a
	out.Portfolio = make([]Position, len(a.Portfolio))
	copy(out.Portfolio, a.Portfolio)
	out.Transactions = make([]Transaction, len(a.Transactions))
	copy(out.Transactions, a.Transactions)
	return out
}
