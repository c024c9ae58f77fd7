// Package marketdata assembles quotes, fundamentals, news and price history
// from the providers, the SQLite cache and the offline generator.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/hermes/internal/clientdata"
	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// compactSize is how many recent candles a non-full history request returns
const compactSize = 100

// slowLoadThreshold flags scenario loads that stall a mission start
const slowLoadThreshold = 10 * time.Second

// ErrNoHistory is returned when a provider answers with an empty price series
var ErrNoHistory = errors.New("no historical data available")

// NewsClient fetches sentiment-tagged headlines
type NewsClient interface {
	GetCompanyNews(ctx context.Context, symbol string) ([]domain.NewsItem, error)
}

// Cache persists provider responses per symbol
type Cache interface {
	Store(table, symbol string, data interface{}, ttl time.Duration) error
	GetIfFresh(table, symbol string, out interface{}) (bool, error)
	Get(table, symbol string, out interface{}) (bool, error)
}

// Config tunes fallback and cache behavior
type Config struct {
	// MockFallback serves generated data when the provider fails
	MockFallback bool
	HistoryTTL   time.Duration
}

// Service implements domain.ScenarioLoader and domain.MarketDataProvider
type Service struct {
	av    alphavantage.ClientInterface
	news  NewsClient
	cache Cache
	cfg   Config
	now   func() time.Time
	log   zerolog.Logger
}

// NewService creates the market data service. cache may be nil.
func NewService(av alphavantage.ClientInterface, news NewsClient, cache Cache, cfg Config, log zerolog.Logger) *Service {
	if cfg.HistoryTTL <= 0 {
		cfg.HistoryTTL = clientdata.TTLHistory
	}
	return &Service{
		av:    av,
		news:  news,
		cache: cache,
		cfg:   cfg,
		now:   time.Now,
		log:   log.With().Str("service", "marketdata").Logger(),
	}
}

// LoadScenario fetches quote, overview, news and full history in parallel.
// Any failure aborts the whole load.
func (s *Service) LoadScenario(ctx context.Context, symbol string) (*domain.Scenario, error) {
	symbol = domain.NormalizeSymbol(symbol)
	defer utils.OperationTimer("load_scenario:"+symbol, slowLoadThreshold, s.log)()

	var (
		quote    *domain.Quote
		overview *domain.Overview
		items    []domain.NewsItem
		history  []domain.Candle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = s.GetQuote(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		overview, err = s.GetOverview(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.GetNews(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.GetHistory(gctx, symbol, true)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load scenario for %s: %w", symbol, err)
	}

	s.log.Debug().
		Str("symbol", symbol).
		Int("candles", len(history)).
		Int("news", len(items)).
		Msg("Scenario loaded")

	return &domain.Scenario{
		Quote:    *quote,
		Overview: *overview,
		News:     items,
		History:  history,
	}, nil
}

// GetQuote returns the latest quote: fresh cache, provider, stale cache, then mock for demo symbols
func (s *Service) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = domain.NormalizeSymbol(symbol)

	var cached domain.Quote
	if s.cacheGet(clientdata.TableQuote, symbol, &cached, true) {
		return &cached, nil
	}

	gq, err := s.av.GetGlobalQuote(ctx, symbol)
	if err == nil {
		quote := quoteFromAPI(gq)
		s.cacheStore(clientdata.TableQuote, symbol, quote, clientdata.TTLQuote)
		return quote, nil
	}

	s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")

	if s.cacheGet(clientdata.TableQuote, symbol, &cached, false) {
		return &cached, nil
	}
	if s.cfg.MockFallback && IsDemoSymbol(symbol) {
		return MockQuote(symbol), nil
	}
	return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
}

// GetOverview returns company fundamentals. With mock fallback enabled any symbol gets placeholder data.
func (s *Service) GetOverview(ctx context.Context, symbol string) (*domain.Overview, error) {
	symbol = domain.NormalizeSymbol(symbol)

	var cached domain.Overview
	if s.cacheGet(clientdata.TableOverview, symbol, &cached, true) {
		return &cached, nil
	}

	co, err := s.av.GetCompanyOverview(ctx, symbol)
	if err == nil {
		overview := overviewFromAPI(co)
		s.cacheStore(clientdata.TableOverview, symbol, overview, clientdata.TTLOverview)
		return overview, nil
	}

	s.log.Warn().Err(err).Str("symbol", symbol).Msg("Overview fetch failed")

	if s.cacheGet(clientdata.TableOverview, symbol, &cached, false) {
		return &cached, nil
	}
	if s.cfg.MockFallback {
		return MockOverview(symbol), nil
	}
	return nil, fmt.Errorf("failed to get overview for %s: %w", symbol, err)
}

// GetHistory returns daily candles in ascending date order.
// Demo symbols always use the generated series. full=false returns the last 100 candles.
func (s *Service) GetHistory(ctx context.Context, symbol string, full bool) ([]domain.Candle, error) {
	symbol = domain.NormalizeSymbol(symbol)

	if IsDemoSymbol(symbol) {
		return compact(GenerateHistory(symbol, s.now()), full), nil
	}

	var cached []domain.Candle
	if s.cacheGet(clientdata.TableHistory, symbol, &cached, true) {
		return compact(cached, full), nil
	}

	// Always fetch full so the cache can serve both sizes
	prices, err := s.av.GetDailyPrices(ctx, symbol, true)
	if err == nil && len(prices) == 0 {
		err = ErrNoHistory
	}
	if err == nil {
		candles := candlesFromAPI(prices)
		s.cacheStore(clientdata.TableHistory, symbol, candles, s.cfg.HistoryTTL)
		return compact(candles, full), nil
	}

	s.log.Warn().Err(err).Str("symbol", symbol).Msg("History fetch failed")

	if s.cacheGet(clientdata.TableHistory, symbol, &cached, false) && len(cached) > 0 {
		return compact(cached, full), nil
	}
	return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
}

// GetNews returns up to four sentiment-tagged headlines. Never fails: an unavailable
// provider yields stale headlines or an empty list.
func (s *Service) GetNews(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	symbol = domain.NormalizeSymbol(symbol)

	var cached []domain.NewsItem
	if s.cacheGet(clientdata.TableNews, symbol, &cached, true) {
		return cached, nil
	}

	var items []domain.NewsItem
	if s.news != nil {
		fetched, err := s.news.GetCompanyNews(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("News fetch failed")
		}
		items = fetched
	}

	if len(items) > 0 {
		s.cacheStore(clientdata.TableNews, symbol, items, clientdata.TTLNews)
		return items, nil
	}

	if s.cacheGet(clientdata.TableNews, symbol, &cached, false) {
		return cached, nil
	}
	return []domain.NewsItem{}, nil
}

func (s *Service) cacheGet(table, symbol string, out interface{}, freshOnly bool) bool {
	if s.cache == nil {
		return false
	}

	var (
		found bool
		err   error
	)
	if freshOnly {
		found, err = s.cache.GetIfFresh(table, symbol, out)
	} else {
		found, err = s.cache.Get(table, symbol, out)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("table", table).Str("symbol", symbol).Msg("Cache read failed")
		return false
	}
	return found
}

func (s *Service) cacheStore(table, symbol string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(table, symbol, data, ttl); err != nil {
		s.log.Warn().Err(err).Str("table", table).Str("symbol", symbol).Msg("Cache write failed")
	}
}

func compact(candles []domain.Candle, full bool) []domain.Candle {
	if full || len(candles) <= compactSize {
		return candles
	}
	return candles[len(candles)-compactSize:]
}
