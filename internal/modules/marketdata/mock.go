package marketdata

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aristath/hermes/internal/domain"
)

// mockStartDate is the first calendar day of every generated series
var mockStartDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

var demoSymbols = map[string]bool{"SPY": true, "TSLA": true, "GLD": true}

// IsDemoSymbol reports whether the symbol has a generated series
func IsDemoSymbol(symbol string) bool {
	return demoSymbols[domain.NormalizeSymbol(symbol)]
}

// MockQuote returns a fixed quote for offline use
func MockQuote(symbol string) *domain.Quote {
	symbol = domain.NormalizeSymbol(symbol)

	price := 180.0
	switch symbol {
	case "SPY":
		price = 450
	case "TSLA":
		price = 250
	}

	return &domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        1.5,
		ChangePercent: 0.5,
		Volume:        1000000,
		High:          455,
		Low:           448,
		Open:          449,
		PreviousClose: 448.5,
	}
}

// MockOverview returns placeholder fundamentals for any symbol
func MockOverview(symbol string) *domain.Overview {
	symbol = domain.NormalizeSymbol(symbol)

	name := symbol
	switch symbol {
	case "SPY":
		name = "SPDR S&P 500 ETF"
	case "TSLA":
		name = "Tesla Inc"
	case "GLD":
		name = "SPDR Gold Trust"
	}

	return &domain.Overview{
		Symbol:           symbol,
		Name:             name,
		Description:      "Mock data description for simulation.",
		Sector:           "Simulation",
		Industry:         "Simulation",
		MarketCap:        1000000000,
		PERatio:          25,
		EPS:              10,
		Revenue:          500000000,
		ProfitMargin:     0.15,
		FiftyTwoWeekHigh: 500,
		FiftyTwoWeekLow:  400,
		Beta:             1.0,
		DividendYield:    0.01,
	}
}

// regime returns the bounds of the uniform daily change for a symbol on a date
type regime func(date string) (low, high float64)

func regimeFor(symbol string) regime {
	switch symbol {
	case "SPY":
		// 2020 crash, then the recovery rally
		return func(date string) (float64, float64) {
			switch {
			case date >= "2020-02-20" && date <= "2020-03-23":
				return -0.07, -0.03
			case date > "2020-03-23" && date < "2020-06-01":
				return 0.02, 0.04
			default:
				return -0.009, 0.011
			}
		}
	case "TSLA":
		// late-2020 rally
		return func(date string) (float64, float64) {
			if date >= "2020-11-01" && date <= "2021-02-01" {
				return 0.03, 0.07
			}
			return -0.03, 0.03
		}
	default:
		// upward drift from 2022
		return func(date string) (float64, float64) {
			if date > "2022-01-01" {
				return -0.005, 0.01
			}
			return -0.005, 0.005
		}
	}
}

func startingPrice(symbol string) float64 {
	switch symbol {
	case "SPY":
		return 300
	case "TSLA":
		return 25
	case "GLD":
		return 140
	default:
		return 100
	}
}

// GenerateHistory builds a weekday-only daily series from 2019-01-01 through end.
// The output is deterministic per symbol, and a longer range extends a shorter one
// without changing the shared prefix.
func GenerateHistory(symbol string, end time.Time) []domain.Candle {
	symbol = domain.NormalizeSymbol(symbol)

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(symbol)))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x4845524d4553))

	uniform := func(low, high float64) float64 {
		return low + rng.Float64()*(high-low)
	}

	bounds := regimeFor(symbol)
	price := startingPrice(symbol)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	candles := make([]domain.Candle, 0, int(end.Sub(mockStartDate).Hours()/24*5/7)+1)
	for day := mockStartDate; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		low, high := bounds(day.Format(domain.DateLayout))
		prevClose := price
		price = price * (1 + uniform(low, high))

		open := prevClose * (1 + uniform(-0.0025, 0.0025))
		closePrice := price
		dayHigh := math.Max(open, closePrice) * (1 + rng.Float64()*0.01)
		dayLow := math.Min(open, closePrice) * (1 - rng.Float64()*0.01)
		volume := int64(rng.IntN(1000000)) + 500000

		candles = append(candles, domain.NewCandle(day, open, dayHigh, dayLow, closePrice, volume))
	}

	return candles
}
