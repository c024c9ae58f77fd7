package testing

import (
	"time"

	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/domain"
)

// NewCandleFixtures returns one weekday-only candle per close, starting at start.
// Open, high and low equal the close.
func NewCandleFixtures(start time.Time, closes ...float64) []domain.Candle {
	candles := make([]domain.Candle, 0, len(closes))
	day := start
	for _, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		candles = append(candles, domain.NewCandle(day, c, c, c, c, 1000))
		day = day.AddDate(0, 0, 1)
	}
	return candles
}

// NewDailyPriceFixtures returns provider rows newest first, like the API
func NewDailyPriceFixtures(start time.Time, closes ...float64) []alphavantage.DailyPrice {
	candles := NewCandleFixtures(start, closes...)
	prices := make([]alphavantage.DailyPrice, len(candles))
	for i, c := range candles {
		date, _ := time.Parse(domain.DateLayout, c.FullDate)
		prices[len(candles)-1-i] = alphavantage.DailyPrice{
			Date: date, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume,
		}
	}
	return prices
}

// NewScenarioFixture returns a complete scenario for symbol with the given history
func NewScenarioFixture(symbol string, history []domain.Candle) *domain.Scenario {
	last := 0.0
	if len(history) > 0 {
		last = history[len(history)-1].Close
	}
	return &domain.Scenario{
		Quote:    domain.Quote{Symbol: symbol, Price: last},
		Overview: domain.Overview{Symbol: symbol, Name: symbol + " Corp", Sector: "Technology"},
		News:     []domain.NewsItem{},
		History:  history,
	}
}
