// Package domain provides core domain models and types.
package domain

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for Candle.FullDate and mission start dates
const DateLayout = "2006-01-02"

// displayLayout is the short label shown under charts ("Feb 15")
const displayLayout = "Jan 2"

// Candle is one trading day of OHLCV data.
// A series for one symbol is ordered ascending by FullDate with no duplicate dates.
type Candle struct {
	Date     string  `json:"date" msgpack:"d"`
	FullDate string  `json:"fullDate" msgpack:"fd"`
	Open     float64 `json:"open" msgpack:"o"`
	High     float64 `json:"high" msgpack:"h"`
	Low      float64 `json:"low" msgpack:"l"`
	Close    float64 `json:"close" msgpack:"c"`
	Volume   int64   `json:"volume" msgpack:"v"`
}

// NewCandle builds a candle for the given day, deriving both date labels
func NewCandle(day time.Time, open, high, low, close float64, volume int64) Candle {
	return Candle{
		Date:     DisplayDate(day),
		FullDate: day.Format(DateLayout),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		Volume:   volume,
	}
}

// DisplayDate formats a day as the short chart label
func DisplayDate(day time.Time) string {
	return day.Format(displayLayout)
}

// Quote is the latest market quote for a symbol
type Quote struct {
	Symbol        string  `json:"symbol" msgpack:"symbol"`
	Price         float64 `json:"price" msgpack:"price"`
	Change        float64 `json:"change" msgpack:"change"`
	ChangePercent float64 `json:"changePercent" msgpack:"change_percent"`
	Volume        int64   `json:"volume" msgpack:"volume"`
	High          float64 `json:"high" msgpack:"high"`
	Low           float64 `json:"low" msgpack:"low"`
	Open          float64 `json:"open" msgpack:"open"`
	PreviousClose float64 `json:"previousClose" msgpack:"previous_close"`
}

// Overview holds company fundamentals
type Overview struct {
	Symbol           string  `json:"symbol" msgpack:"symbol"`
	Name             string  `json:"name" msgpack:"name"`
	Description      string  `json:"description" msgpack:"description"`
	Sector           string  `json:"sector" msgpack:"sector"`
	Industry         string  `json:"industry" msgpack:"industry"`
	MarketCap        float64 `json:"marketCap" msgpack:"market_cap"`
	PERatio          float64 `json:"peRatio" msgpack:"pe_ratio"`
	EPS              float64 `json:"eps" msgpack:"eps"`
	Revenue          float64 `json:"revenue" msgpack:"revenue"`
	ProfitMargin     float64 `json:"profitMargin" msgpack:"profit_margin"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh" msgpack:"high_52w"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow" msgpack:"low_52w"`
	Beta             float64 `json:"beta" msgpack:"beta"`
	DividendYield    float64 `json:"dividendYield" msgpack:"dividend_yield"`
}

// Sentiment is the keyword-derived tone of a news item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsItem is one headline from the news provider
type NewsItem struct {
	Title       string    `json:"title" msgpack:"title"`
	Description string    `json:"description" msgpack:"description"`
	Source      string    `json:"source" msgpack:"source"`
	Date        string    `json:"date" msgpack:"date"`
	Link        string    `json:"link" msgpack:"link"`
	Image       string    `json:"image,omitempty" msgpack:"image"`
	Sentiment   Sentiment `json:"sentiment" msgpack:"sentiment"`
}

// Scenario is everything a mission needs from the data providers, delivered all-or-nothing
type Scenario struct {
	Quote    Quote      `json:"quote"`
	Overview Overview   `json:"overview"`
	News     []NewsItem `json:"news"`
	History  []Candle   `json:"history"`
}

// NormalizeSymbol upper-cases and trims a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
