package ledger

import "github.com/shopspring/decimal"

// Summary aggregates a transaction log
type Summary struct {
	TotalTrades  int     `json:"totalTrades"`
	BuyCount     int     `json:"buyCount"`
	SellCount    int     `json:"sellCount"`
	SharesBought int     `json:"sharesBought"`
	SharesSold   int     `json:"sharesSold"`
	TotalBought  float64 `json:"totalBought"`
	TotalSold    float64 `json:"totalSold"`
	AvgBuyPrice  float64 `json:"avgBuyPrice"`
	AvgSellPrice float64 `json:"avgSellPrice"`
	NetCashFlow  float64 `json:"netCashFlow"` // sold minus bought
}

// Summarize totals buys and sells. Average prices are volume weighted.
func Summarize(transactions []Transaction) Summary {
	var (
		s            Summary
		bought, sold decimal.Decimal
	)

	for _, t := range transactions {
		value := decimal.NewFromFloat(t.Price).Mul(decimal.NewFromInt(int64(t.Quantity)))
		switch t.Side {
		case TradeSideBuy:
			s.BuyCount++
			s.SharesBought += t.Quantity
			bought = bought.Add(value)
		case TradeSideSell:
			s.SellCount++
			s.SharesSold += t.Quantity
			sold = sold.Add(value)
		default:
			continue
		}
		s.TotalTrades++
	}

	s.TotalBought = bought.Round(2).InexactFloat64()
	s.TotalSold = sold.Round(2).InexactFloat64()
	s.NetCashFlow = sold.Sub(bought).Round(2).InexactFloat64()
	if s.SharesBought > 0 {
		s.AvgBuyPrice = bought.Div(decimal.NewFromInt(int64(s.SharesBought))).Round(2).InexactFloat64()
	}
	if s.SharesSold > 0 {
		s.AvgSellPrice = sold.Div(decimal.NewFromInt(int64(s.SharesSold))).Round(2).InexactFloat64()
	}
	return s
}

// Filter returns the transactions matching side, newest first, capped at limit.
// An empty side matches both; limit <= 0 means no cap.
func Filter(transactions []Transaction, side TradeSide, limit int) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if side != "" && t.Side != side {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
