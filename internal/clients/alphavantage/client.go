// Package alphavantage provides a client for the Alpha Vantage market data API.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.alphavantage.co/query"

	// DailyRequestLimit is the free tier budget per UTC day
	DailyRequestLimit = 25

	// free tier allows 5 requests per minute
	requestsPerMinute = 5
)

// ClientInterface is the subset of the client used by services, for mocking
type ClientInterface interface {
	GetGlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error)
	GetCompanyOverview(ctx context.Context, symbol string) (*CompanyOverview, error)
	GetDailyPrices(ctx context.Context, symbol string, full bool) ([]DailyPrice, error)
	GetRemainingRequests() int
	ResetDailyCounter()
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// Client talks to Alpha Vantage with a daily request budget, per-minute pacing
// and an in-memory response cache
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger

	mu           sync.Mutex
	requestCount int
	resetAt      time.Time
	cacheTTL     CacheTTL

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

// NewClient creates a client for apiKey
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), 1),
		log:        log.With().Str("client", "alphavantage").Logger(),
		resetAt:    nextMidnightUTC(),
		cacheTTL:   DefaultCacheTTL(),
		cache:      make(map[string]cacheEntry),
	}
}

// SetBaseURL points the client at another endpoint (used by tests)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetCacheTTL replaces the cache lifetimes
func (c *Client) SetCacheTTL(ttl CacheTTL) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheTTL = ttl
}

// SetRateLimit overrides per-request pacing; zero disables pacing
func (c *Client) SetRateLimit(interval time.Duration) {
	if interval <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	c.limiter = rate.NewLimiter(rate.Every(interval), 1)
}

// GetRemainingRequests returns how many calls are left in today's budget
func (c *Client) GetRemainingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolloverLocked()
	return DailyRequestLimit - c.requestCount
}

// ResetDailyCounter restores the full daily budget
func (c *Client) ResetDailyCounter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount = 0
	c.resetAt = nextMidnightUTC()
	c.log.Debug().Msg("Daily request counter reset")
}

// checkRateLimit consumes one request from the daily budget
func (c *Client) checkRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolloverLocked()

	if c.requestCount >= DailyRequestLimit {
		return ErrRateLimitExceeded{}
	}
	c.requestCount++
	return nil
}

func (c *Client) rolloverLocked() {
	if !time.Now().Before(c.resetAt) {
		c.requestCount = 0
		c.resetAt = nextMidnightUTC()
	}
}

// GetGlobalQuote fetches the latest quote for symbol
func (c *Client) GetGlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error) {
	params := map[string]string{"symbol": symbol}
	key := buildCacheKey("GLOBAL_QUOTE", params)
	if cached, ok := c.getFromCache(key); ok {
		return cached.(*GlobalQuote), nil
	}

	body, err := c.doRequest(ctx, "GLOBAL_QUOTE", params)
	if err != nil {
		return nil, err
	}

	quote, err := parseGlobalQuote(body)
	if err != nil {
		return nil, ErrSymbolNotFound{Symbol: symbol}
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}

	c.setCache(key, quote, c.ttl().Quotes)
	return quote, nil
}

// GetCompanyOverview fetches fundamentals for symbol
func (c *Client) GetCompanyOverview(ctx context.Context, symbol string) (*CompanyOverview, error) {
	params := map[string]string{"symbol": symbol}
	key := buildCacheKey("OVERVIEW", params)
	if cached, ok := c.getFromCache(key); ok {
		return cached.(*CompanyOverview), nil
	}

	body, err := c.doRequest(ctx, "OVERVIEW", params)
	if err != nil {
		return nil, err
	}

	overview, err := parseCompanyOverview(body)
	if err != nil {
		return nil, ErrSymbolNotFound{Symbol: symbol}
	}

	c.setCache(key, overview, c.ttl().Fundamentals)
	return overview, nil
}

// GetDailyPrices fetches the daily series, newest first. full requests the
// complete history instead of the last 100 days.
func (c *Client) GetDailyPrices(ctx context.Context, symbol string, full bool) ([]DailyPrice, error) {
	outputSize := "compact"
	if full {
		outputSize = "full"
	}
	params := map[string]string{"symbol": symbol, "outputsize": outputSize}
	key := buildCacheKey("TIME_SERIES_DAILY", params)
	if cached, ok := c.getFromCache(key); ok {
		return cached.([]DailyPrice), nil
	}

	body, err := c.doRequest(ctx, "TIME_SERIES_DAILY", params)
	if err != nil {
		return nil, err
	}

	prices, err := parseDailyTimeSeries(body)
	if err != nil {
		return nil, ErrSymbolNotFound{Symbol: symbol}
	}
	if len(prices) == 0 {
		return nil, ErrSymbolNotFound{Symbol: symbol}
	}

	c.setCache(key, prices, c.ttl().PriceData)
	return prices, nil
}

func (c *Client) ttl() CacheTTL {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheTTL
}

func (c *Client) doRequest(ctx context.Context, function string, params map[string]string) ([]byte, error) {
	if err := c.checkRateLimit(); err != nil {
		c.log.Warn().Str("function", function).Msg("Daily request budget exhausted")
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("function", function)
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Str("function", function).Str("symbol", params["symbol"]).Msg("Requesting")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	if err := c.checkAPIError(body); err != nil {
		if sym := params["symbol"]; sym != "" {
			if _, ok := err.(apiErrorMessage); ok {
				return nil, ErrSymbolNotFound{Symbol: sym}
			}
		}
		return nil, err
	}
	return body, nil
}

// apiErrorMessage carries an "Error Message" response verbatim
type apiErrorMessage string

func (e apiErrorMessage) Error() string {
	return "alpha vantage: " + string(e)
}

// checkAPIError detects the error payloads Alpha Vantage returns with status 200
func (c *Client) checkAPIError(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("Thank you")) {
		return ErrRateLimitExceeded{}
	}

	var probe struct {
		Note         string `json:"Note"`
		Information  string `json:"Information"`
		ErrorMessage string `json:"Error Message"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		// Non-JSON bodies are left to the specific parser
		return nil
	}

	switch {
	case probe.Note != "":
		return ErrRateLimitExceeded{}
	case probe.Information != "":
		if strings.Contains(strings.ToLower(probe.Information), "api key") &&
			!strings.Contains(strings.ToLower(probe.Information), "rate limit") {
			return ErrInvalidAPIKey{}
		}
		return ErrRateLimitExceeded{}
	case probe.ErrorMessage != "":
		if strings.Contains(strings.ToLower(probe.ErrorMessage), "apikey") {
			return ErrInvalidAPIKey{}
		}
		return apiErrorMessage(probe.ErrorMessage)
	}
	return nil
}

func (c *Client) getFromCache(key string) (interface{}, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

func (c *Client) setCache(key string, data interface{}, ttl time.Duration) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache[key] = cacheEntry{data: data, expiresAt: time.Now().Add(ttl)}
}

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// buildCacheKey renders function and params in a stable order, never including the api key
func buildCacheKey(function string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "apikey" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(function)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}
	return b.String()
}

func nextMidnightUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}
