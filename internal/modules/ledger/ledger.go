package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInitialCash is the starting balance of every mission
const DefaultInitialCash = 10000.0

var hundred = decimal.NewFromInt(100)

// Ledger holds cash, holdings of one symbol and the transaction log.
//
// Invariants: cash never goes negative and holdings never drop below zero.
// A Ledger is not safe for concurrent use; the owning mission run serializes access.
type Ledger struct {
	symbol       string
	initialCash  decimal.Decimal
	cash         decimal.Decimal
	shares       int
	transactions []Transaction // most recent first
	newID        func() string
}

// New creates a ledger for symbol funded with initialCash
func New(symbol string, initialCash float64) *Ledger {
	start := decimal.NewFromFloat(initialCash)
	if start.IsNegative() {
		start = decimal.Zero
	}
	return &Ledger{
		symbol:      symbol,
		initialCash: start,
		cash:        start,
		newID:       func() string { return uuid.NewString() },
	}
}

// Symbol returns the traded symbol
func (l *Ledger) Symbol() string {
	return l.symbol
}

// Cash returns the current cash balance
func (l *Ledger) Cash() float64 {
	return l.cash.InexactFloat64()
}

// InitialCash returns the starting balance
func (l *Ledger) InitialCash() float64 {
	return l.initialCash.InexactFloat64()
}

// Holdings returns the number of shares held of symbol; unheld symbols are 0
func (l *Ledger) Holdings(symbol string) int {
	if symbol != l.symbol {
		return 0
	}
	return l.shares
}

// Transactions returns a copy of the log, most recent first
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Buy purchases quantity shares at price. Orders are all-or-nothing: an order that costs
// more than the available cash is rejected, never reduced to an affordable size.
func (l *Ledger) Buy(quantity int, price float64, date string) (Transaction, error) {
	if quantity <= 0 {
		return Transaction{}, ErrInvalidQuantity
	}
	p := decimal.NewFromFloat(price)
	if !p.IsPositive() {
		return Transaction{}, ErrInvalidPrice
	}
	cost := p.Mul(decimal.NewFromInt(int64(quantity)))
	if cost.GreaterThan(l.cash) {
		return Transaction{}, ErrInsufficientCash
	}

	l.cash = l.cash.Sub(cost)
	l.shares += quantity
	return l.record(TradeSideBuy, quantity, price, date), nil
}

// Sell disposes of quantity shares at price. Short selling is not allowed.
func (l *Ledger) Sell(quantity int, price float64, date string) (Transaction, error) {
	if quantity <= 0 {
		return Transaction{}, ErrInvalidQuantity
	}
	p := decimal.NewFromFloat(price)
	if !p.IsPositive() {
		return Transaction{}, ErrInvalidPrice
	}
	if quantity > l.shares {
		return Transaction{}, ErrInsufficientHoldings
	}

	l.cash = l.cash.Add(p.Mul(decimal.NewFromInt(int64(quantity))))
	l.shares -= quantity
	return l.record(TradeSideSell, quantity, price, date), nil
}

func (l *Ledger) record(side TradeSide, quantity int, price float64, date string) Transaction {
	tx := Transaction{
		ID:       l.newID(),
		Side:     side,
		Symbol:   l.symbol,
		Quantity: quantity,
		Price:    price,
		Date:     date,
	}
	l.transactions = append([]Transaction{tx}, l.transactions...)
	return tx
}

// MaxBuy returns the largest whole number of shares affordable at price
func (l *Ledger) MaxBuy(price float64) int {
	p := decimal.NewFromFloat(price)
	if !p.IsPositive() {
		return 0
	}
	return int(l.cash.Div(p).Floor().IntPart())
}

// MaxSell returns the number of shares that can be sold
func (l *Ledger) MaxSell() int {
	return l.shares
}

// NetWorth returns cash plus holdings marked at price
func (l *Ledger) NetWorth(price float64) float64 {
	return l.netWorth(decimal.NewFromFloat(price)).InexactFloat64()
}

// TotalReturnPercent returns (netWorth - initialCash) / initialCash * 100
func (l *Ledger) TotalReturnPercent(price float64) float64 {
	return l.totalReturn(l.netWorth(decimal.NewFromFloat(price))).InexactFloat64()
}

// Snapshot marks the ledger to market at price
func (l *Ledger) Snapshot(price float64) Snapshot {
	p := decimal.NewFromFloat(price)
	holdingsValue := p.Mul(decimal.NewFromInt(int64(l.shares)))
	netWorth := l.netWorth(p)

	holdings := map[string]int{}
	if l.shares > 0 {
		holdings[l.symbol] = l.shares
	}

	return Snapshot{
		Cash:               l.cash.InexactFloat64(),
		Holdings:           holdings,
		HoldingsQty:        l.shares,
		HoldingsValue:      holdingsValue.InexactFloat64(),
		NetWorth:           netWorth.InexactFloat64(),
		TotalReturnPercent: l.totalReturn(netWorth).InexactFloat64(),
		MaxBuy:             l.MaxBuy(price),
		MaxSell:            l.shares,
	}
}

func (l *Ledger) netWorth(price decimal.Decimal) decimal.Decimal {
	return l.cash.Add(price.Mul(decimal.NewFromInt(int64(l.shares))))
}

func (l *Ledger) totalReturn(netWorth decimal.Decimal) decimal.Decimal {
	if l.initialCash.IsZero() {
		return decimal.Zero
	}
	return netWorth.Sub(l.initialCash).Div(l.initialCash).Mul(hundred)
}
