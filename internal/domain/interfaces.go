package domain

import "context"

// ScenarioLoader loads the market data a mission replays.
// Implementations either deliver a complete scenario or an error; partial results are never returned.
type ScenarioLoader interface {
	LoadScenario(ctx context.Context, symbol string) (*Scenario, error)
}

// MarketDataProvider serves the information-mode endpoints
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetOverview(ctx context.Context, symbol string) (*Overview, error)
	GetHistory(ctx context.Context, symbol string, full bool) ([]Candle, error)
	GetNews(ctx context.Context, symbol string) ([]NewsItem, error)
}
