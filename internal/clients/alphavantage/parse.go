package alphavantage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

func isNullValue(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "None", "null", "-", ".":
		return true
	}
	return false
}

// parseFloat64 parses API numbers leniently; unparseable values become 0
func parseFloat64(s string) float64 {
	if isNullValue(s) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat64Ptr(s string) *float64 {
	if isNullValue(s) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseInt64 accepts plain, decimal and exponent notation, truncating fractions
func parseInt64(s string) int64 {
	if isNullValue(s) {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return int64(parseFloat64(s))
}

func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", strings.TrimSpace(s))
	return t
}

// parseDailyTimeSeries returns prices sorted newest first
func parseDailyTimeSeries(body []byte) ([]DailyPrice, error) {
	var raw struct {
		TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse daily time series: %w", err)
	}
	if raw.TimeSeries == nil {
		return nil, fmt.Errorf("daily time series missing from response")
	}

	prices := make([]DailyPrice, 0, len(raw.TimeSeries))
	for date, values := range raw.TimeSeries {
		d := parseDate(date)
		if d.IsZero() {
			continue
		}
		prices = append(prices, DailyPrice{
			Date:   d,
			Open:   parseFloat64(values["1. open"]),
			High:   parseFloat64(values["2. high"]),
			Low:    parseFloat64(values["3. low"]),
			Close:  parseFloat64(values["4. close"]),
			Volume: parseInt64(values["5. volume"]),
		})
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.After(prices[j].Date)
	})
	return prices, nil
}

func parseGlobalQuote(body []byte) (*GlobalQuote, error) {
	var raw struct {
		Quote map[string]string `json:"Global Quote"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse global quote: %w", err)
	}
	if len(raw.Quote) == 0 {
		return nil, fmt.Errorf("global quote missing from response")
	}

	q := raw.Quote
	return &GlobalQuote{
		Symbol:           q["01. symbol"],
		Open:             parseFloat64(q["02. open"]),
		High:             parseFloat64(q["03. high"]),
		Low:              parseFloat64(q["04. low"]),
		Price:            parseFloat64(q["05. price"]),
		Volume:           parseInt64(q["06. volume"]),
		LatestTradingDay: parseDate(q["07. latest trading day"]),
		PreviousClose:    parseFloat64(q["08. previous close"]),
		Change:           parseFloat64(q["09. change"]),
		ChangePercent:    parseFloat64(q["10. change percent"]),
	}, nil
}

func parseCompanyOverview(body []byte) (*CompanyOverview, error) {
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse company overview: %w", err)
	}
	if raw["Symbol"] == "" {
		return nil, fmt.Errorf("company overview missing symbol")
	}

	return &CompanyOverview{
		Symbol:               raw["Symbol"],
		AssetType:            raw["AssetType"],
		Name:                 raw["Name"],
		Description:          raw["Description"],
		Exchange:             raw["Exchange"],
		Currency:             raw["Currency"],
		Country:              raw["Country"],
		Sector:               raw["Sector"],
		Industry:             raw["Industry"],
		MarketCapitalization: parseInt64(raw["MarketCapitalization"]),
		RevenueTTM:           parseInt64(raw["RevenueTTM"]),
		PERatio:              parseFloat64Ptr(raw["PERatio"]),
		EPS:                  parseFloat64Ptr(raw["EPS"]),
		ProfitMargin:         parseFloat64Ptr(raw["ProfitMargin"]),
		DividendYield:        parseFloat64Ptr(raw["DividendYield"]),
		Beta:                 parseFloat64Ptr(raw["Beta"]),
		FiftyTwoWeekHigh:     parseFloat64Ptr(raw["52WeekHigh"]),
		FiftyTwoWeekLow:      parseFloat64Ptr(raw["52WeekLow"]),
	}, nil
}
