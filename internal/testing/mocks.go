package testing

import (
	"context"
	"sync"

	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/domain"
)

// MockAlphaVantageClient is a mock implementation of alphavantage.ClientInterface for testing
type MockAlphaVantageClient struct {
	mu        sync.Mutex
	quotes    map[string]*alphavantage.GlobalQuote
	overviews map[string]*alphavantage.CompanyOverview
	prices    map[string][]alphavantage.DailyPrice
	err       error
	calls     map[string]int
	remaining int
}

// NewMockAlphaVantageClient creates a mock client with no data
func NewMockAlphaVantageClient() *MockAlphaVantageClient {
	return &MockAlphaVantageClient{
		quotes:    make(map[string]*alphavantage.GlobalQuote),
		overviews: make(map[string]*alphavantage.CompanyOverview),
		prices:    make(map[string][]alphavantage.DailyPrice),
		calls:     make(map[string]int),
		remaining: alphavantage.DailyRequestLimit,
	}
}

// SetQuote sets the quote returned for a symbol
func (m *MockAlphaVantageClient) SetQuote(symbol string, q *alphavantage.GlobalQuote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = q
}

// SetOverview sets the overview returned for a symbol
func (m *MockAlphaVantageClient) SetOverview(symbol string, o *alphavantage.CompanyOverview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overviews[symbol] = o
}

// SetDailyPrices sets the daily rows returned for a symbol
func (m *MockAlphaVantageClient) SetDailyPrices(symbol string, prices []alphavantage.DailyPrice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = prices
}

// SetError makes every call fail with err
func (m *MockAlphaVantageClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times a method was invoked
func (m *MockAlphaVantageClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// GetGlobalQuote returns the configured quote
func (m *MockAlphaVantageClient) GetGlobalQuote(ctx context.Context, symbol string) (*alphavantage.GlobalQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetGlobalQuote"]++
	if m.err != nil {
		return nil, m.err
	}
	if q, ok := m.quotes[symbol]; ok {
		return q, nil
	}
	return nil, alphavantage.ErrSymbolNotFound{Symbol: symbol}
}

// GetCompanyOverview returns the configured overview
func (m *MockAlphaVantageClient) GetCompanyOverview(ctx context.Context, symbol string) (*alphavantage.CompanyOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetCompanyOverview"]++
	if m.err != nil {
		return nil, m.err
	}
	if o, ok := m.overviews[symbol]; ok {
		return o, nil
	}
	return nil, alphavantage.ErrSymbolNotFound{Symbol: symbol}
}

// GetDailyPrices returns the configured daily rows
func (m *MockAlphaVantageClient) GetDailyPrices(ctx context.Context, symbol string, full bool) ([]alphavantage.DailyPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetDailyPrices"]++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.prices[symbol]; ok {
		return p, nil
	}
	return nil, alphavantage.ErrSymbolNotFound{Symbol: symbol}
}

// GetRemainingRequests returns the simulated budget
func (m *MockAlphaVantageClient) GetRemainingRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// ResetDailyCounter restores the simulated budget
func (m *MockAlphaVantageClient) ResetDailyCounter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining = alphavantage.DailyRequestLimit
	m.calls["ResetDailyCounter"]++
}

// MockNewsClient returns fixed headlines per symbol
type MockNewsClient struct {
	mu    sync.Mutex
	items map[string][]domain.NewsItem
}

// NewMockNewsClient creates a mock news client with no headlines
func NewMockNewsClient() *MockNewsClient {
	return &MockNewsClient{items: make(map[string][]domain.NewsItem)}
}

// SetNews sets the headlines returned for a symbol
func (m *MockNewsClient) SetNews(symbol string, items []domain.NewsItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[symbol] = items
}

// GetCompanyNews returns the configured headlines, never an error
func (m *MockNewsClient) GetCompanyNews(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[symbol], nil
}

// MockScenarioLoader is a mock implementation of domain.ScenarioLoader
type MockScenarioLoader struct {
	mu        sync.Mutex
	scenarios map[string]*domain.Scenario
	err       error
	calls     int
}

// NewMockScenarioLoader creates a loader with no scenarios
func NewMockScenarioLoader() *MockScenarioLoader {
	return &MockScenarioLoader{scenarios: make(map[string]*domain.Scenario)}
}

// SetScenario sets the scenario returned for a symbol
func (m *MockScenarioLoader) SetScenario(symbol string, s *domain.Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[symbol] = s
}

// SetError makes every load fail with err
func (m *MockScenarioLoader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many loads were attempted
func (m *MockScenarioLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LoadScenario returns the configured scenario
func (m *MockScenarioLoader) LoadScenario(ctx context.Context, symbol string) (*domain.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.scenarios[symbol]; ok {
		return s, nil
	}
	return nil, alphavantage.ErrSymbolNotFound{Symbol: symbol}
}
