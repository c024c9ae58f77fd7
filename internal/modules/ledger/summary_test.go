package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTransactions() []Transaction {
	// most recent first, as the ledger stores them
	return []Transaction{
		{ID: "4", Side: TradeSideSell, Symbol: "SPY", Quantity: 5, Price: 120, Date: "2020-03-05"},
		{ID: "3", Side: TradeSideBuy, Symbol: "SPY", Quantity: 10, Price: 90, Date: "2020-03-04"},
		{ID: "2", Side: TradeSideSell, Symbol: "SPY", Quantity: 5, Price: 110, Date: "2020-03-03"},
		{ID: "1", Side: TradeSideBuy, Symbol: "SPY", Quantity: 10, Price: 100, Date: "2020-03-02"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTransactions())

	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 2, s.BuyCount)
	assert.Equal(t, 2, s.SellCount)
	assert.Equal(t, 20, s.SharesBought)
	assert.Equal(t, 10, s.SharesSold)
	assert.Equal(t, 1900.0, s.TotalBought)
	assert.Equal(t, 1150.0, s.TotalSold)
	assert.Equal(t, 95.0, s.AvgBuyPrice)
	assert.Equal(t, 115.0, s.AvgSellPrice)
	assert.Equal(t, -750.0, s.NetCashFlow)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestFilter(t *testing.T) {
	txs := sampleTransactions()

	buys := Filter(txs, TradeSideBuy, 0)
	assert.Len(t, buys, 2)
	assert.Equal(t, "3", buys[0].ID)

	latest := Filter(txs, "", 3)
	assert.Len(t, latest, 3)
	assert.Equal(t, "4", latest[0].ID)

	assert.Empty(t, Filter(nil, TradeSideSell, 10))
}
