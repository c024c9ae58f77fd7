package marketdata

import (
	"sort"

	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/domain"
)

func quoteFromAPI(q *alphavantage.GlobalQuote) *domain.Quote {
	return &domain.Quote{
		Symbol:        domain.NormalizeSymbol(q.Symbol),
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
	}
}

func overviewFromAPI(o *alphavantage.CompanyOverview) *domain.Overview {
	return &domain.Overview{
		Symbol:           domain.NormalizeSymbol(o.Symbol),
		Name:             o.Name,
		Description:      o.Description,
		Sector:           o.Sector,
		Industry:         o.Industry,
		MarketCap:        float64(o.MarketCapitalization),
		PERatio:          deref(o.PERatio),
		EPS:              deref(o.EPS),
		Revenue:          float64(o.RevenueTTM),
		ProfitMargin:     deref(o.ProfitMargin),
		FiftyTwoWeekHigh: deref(o.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  deref(o.FiftyTwoWeekLow),
		Beta:             deref(o.Beta),
		DividendYield:    deref(o.DividendYield),
	}
}

// candlesFromAPI converts provider rows to a series ascending by date
func candlesFromAPI(prices []alphavantage.DailyPrice) []domain.Candle {
	candles := make([]domain.Candle, len(prices))
	for i, p := range prices {
		candles[i] = domain.NewCandle(p.Date, p.Open, p.High, p.Low, p.Close, p.Volume)
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].FullDate < candles[j].FullDate
	})
	return candles
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
