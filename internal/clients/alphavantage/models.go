package alphavantage

import (
	"fmt"
	"time"
)

// DailyPrice is one row of TIME_SERIES_DAILY
type DailyPrice struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// GlobalQuote is the GLOBAL_QUOTE payload
type GlobalQuote struct {
	Symbol           string    `json:"symbol"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Price            float64   `json:"price"`
	Volume           int64     `json:"volume"`
	LatestTradingDay time.Time `json:"latest_trading_day"`
	PreviousClose    float64   `json:"previous_close"`
	Change           float64   `json:"change"`
	ChangePercent    float64   `json:"change_percent"`
}

// CompanyOverview is the OVERVIEW payload. Optional ratios are nil when the API reports "None".
type CompanyOverview struct {
	Symbol               string   `json:"symbol"`
	AssetType            string   `json:"asset_type"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Exchange             string   `json:"exchange"`
	Currency             string   `json:"currency"`
	Country              string   `json:"country"`
	Sector               string   `json:"sector"`
	Industry             string   `json:"industry"`
	MarketCapitalization int64    `json:"market_capitalization"`
	RevenueTTM           int64    `json:"revenue_ttm"`
	PERatio              *float64 `json:"pe_ratio,omitempty"`
	EPS                  *float64 `json:"eps,omitempty"`
	ProfitMargin         *float64 `json:"profit_margin,omitempty"`
	DividendYield        *float64 `json:"dividend_yield,omitempty"`
	Beta                 *float64 `json:"beta,omitempty"`
	FiftyTwoWeekHigh     *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow      *float64 `json:"fifty_two_week_low,omitempty"`
}

// CacheTTL configures how long each kind of response is cached in memory
type CacheTTL struct {
	Fundamentals time.Duration
	PriceData    time.Duration
	Quotes       time.Duration
}

// DefaultCacheTTL returns the default cache lifetimes
func DefaultCacheTTL() CacheTTL {
	return CacheTTL{
		Fundamentals: 24 * time.Hour,
		PriceData:    6 * time.Hour,
		Quotes:       15 * time.Minute,
	}
}

// ErrRateLimitExceeded is returned when the daily budget is spent or the API throttles us
type ErrRateLimitExceeded struct{}

func (e ErrRateLimitExceeded) Error() string {
	return "alpha vantage rate limit exceeded"
}

// ErrInvalidAPIKey is returned when the API rejects the key
type ErrInvalidAPIKey struct{}

func (e ErrInvalidAPIKey) Error() string {
	return "alpha vantage: invalid api key"
}

// ErrSymbolNotFound is returned when the API has no data for a symbol
type ErrSymbolNotFound struct {
	Symbol string
}

func (e ErrSymbolNotFound) Error() string {
	return fmt.Sprintf("alpha vantage: symbol not found: %s", e.Symbol)
}
