// Package ledger implements the single-asset paper-trading portfolio used by missions.
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// TradeSide is the direction of a transaction
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// IsValid checks if the trade side is valid
func (ts TradeSide) IsValid() bool {
	return ts == TradeSideBuy || ts == TradeSideSell
}

// TradeSideFromString parses a trade side, case-insensitively
func TradeSideFromString(s string) (TradeSide, error) {
	side := TradeSide(strings.ToUpper(strings.TrimSpace(s)))
	if !side.IsValid() {
		return "", fmt.Errorf("invalid trade side: %q", s)
	}
	return side, nil
}

// Rejection reasons. All wrap ErrInvalidTrade; a rejected order changes nothing.
var (
	ErrInvalidTrade         = errors.New("invalid trade")
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	ErrInvalidPrice         = fmt.Errorf("%w: price must be positive", ErrInvalidTrade)
	ErrInsufficientCash     = fmt.Errorf("%w: insufficient cash", ErrInvalidTrade)
	ErrInsufficientHoldings = fmt.Errorf("%w: insufficient holdings", ErrInvalidTrade)
)

// Transaction is one executed order
type Transaction struct {
	ID       string    `json:"id"`
	Side     TradeSide `json:"type"`
	Symbol   string    `json:"symbol"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	Date     string    `json:"date"` // simulated day, YYYY-MM-DD
}

// Value returns quantity times price
func (t Transaction) Value() float64 {
	return float64(t.Quantity) * t.Price
}

// Snapshot is the mark-to-market view of a ledger at one price
type Snapshot struct {
	Cash               float64        `json:"cash"`
	Holdings           map[string]int `json:"holdings"`
	HoldingsQty        int            `json:"holdingsQty"`
	HoldingsValue      float64        `json:"holdingsValue"`
	NetWorth           float64        `json:"netWorth"`
	TotalReturnPercent float64        `json:"totalReturnPercent"`
	MaxBuy             int            `json:"maxBuy"`
	MaxSell            int            `json:"maxSell"`
}
