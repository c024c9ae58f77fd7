package simulation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/modules/missions"
)

// buildHistory creates consecutive daily candles from 2020-01-01 with the given closes
func buildHistory(closes ...float64) []domain.Candle {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.NewCandle(start.AddDate(0, 0, i), c, c, c, c, 1000)
	}
	return candles
}

func testMission(id string, durationDays int, target float64) missions.Definition {
	return missions.Definition{
		ID:                  id,
		Title:               "Test " + id,
		Symbol:              "TEST",
		StartDate:           "2020-01-01",
		DurationDays:        durationDays,
		TargetReturnPercent: target,
		Difficulty:          missions.DifficultyEasy,
		Description:         "test mission",
	}
}

func testScenario(closes ...float64) *domain.Scenario {
	return &domain.Scenario{
		Quote:    domain.Quote{Symbol: "TEST", Price: closes[len(closes)-1]},
		Overview: domain.Overview{Symbol: "TEST", Name: "Test Corp", Sector: "Technology"},
		News: []domain.NewsItem{
			{Title: "Record growth", Sentiment: domain.SentimentPositive},
		},
		History: buildHistory(closes...),
	}
}

// fakeLoader returns a fixed scenario or error. When gate is set, loads block until it is closed.
type fakeLoader struct {
	mu       sync.Mutex
	scenario *domain.Scenario
	err      error
	gate     chan struct{}
	started  chan struct{}
	calls    int
}

func (f *fakeLoader) LoadScenario(ctx context.Context, symbol string) (*domain.Scenario, error) {
	f.mu.Lock()
	f.calls++
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.scenario == nil {
		return nil, errors.New("no scenario configured")
	}
	return f.scenario, nil
}
