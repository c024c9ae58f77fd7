package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/modules/news"
	"github.com/aristath/hermes/internal/modules/playback"
	"github.com/aristath/hermes/internal/modules/series"
	"github.com/rs/zerolog"
)

const eventModule = "simulation"

// SessionConfig holds the tunables shared by every session
type SessionConfig struct {
	InitialCash      float64
	PlaybackInterval time.Duration
	ChartWindow      int
}

// Session is one player's mission run plus its auto-play ticker.
//
// Every command, including playback ticks, goes through the session mutex.
// Scenario loads run outside the lock and are applied only if no exit or newer
// start happened in the meantime.
type Session struct {
	id         string
	playerName string
	catalog    *missions.Catalog
	loader     domain.ScenarioLoader
	events     *events.Manager
	cfg        SessionConfig
	log        zerolog.Logger

	mu           sync.Mutex
	run          *Run
	player       *playback.Player
	loading      bool
	loadGen      uint64
	lastActivity time.Time
	now          func() time.Time
}

// NewSession creates a session in the Selecting phase
func NewSession(
	id, playerName string,
	catalog *missions.Catalog,
	loader domain.ScenarioLoader,
	eventManager *events.Manager,
	cfg SessionConfig,
	log zerolog.Logger,
) *Session {
	if cfg.ChartWindow <= 0 {
		cfg.ChartWindow = series.DefaultWindowSize
	}

	s := &Session{
		id:         id,
		playerName: playerName,
		catalog:    catalog,
		loader:     loader,
		events:     eventManager,
		cfg:        cfg,
		log:        log.With().Str("component", "session").Str("session_id", id).Logger(),
		run:        NewRun(cfg.InitialCash),
		now:        time.Now,
	}
	s.player = playback.NewPlayer(cfg.PlaybackInterval, s.autoTick, s.log)
	s.lastActivity = s.now()
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// PlayerName returns the name the session was created with
func (s *Session) PlayerName() string {
	return s.playerName
}

// LastActivity returns when the session last handled a command or tick
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// StartMission loads the mission's scenario and begins playing it.
//
// The phase stays Selecting when the mission is unknown, the load fails
// (ErrScenarioLoadFailed) or the history has no day on or after the start
// date (series.ErrStartDateNotFound).
func (s *Session) StartMission(ctx context.Context, missionID string) (State, error) {
	s.mu.Lock()
	s.touch()

	mission, err := s.catalog.Get(missionID)
	if err != nil {
		state := s.stateLocked()
		s.mu.Unlock()
		return state, err
	}
	if s.run.Phase() != PhaseSelecting {
		state := s.stateLocked()
		s.mu.Unlock()
		return state, ErrMissionActive
	}

	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.mu.Unlock()

	s.log.Info().Str("mission_id", mission.ID).Str("symbol", mission.Symbol).Msg("Loading scenario")
	scenario, loadErr := s.loader.LoadScenario(ctx, mission.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.loadGen {
		s.log.Debug().Str("mission_id", mission.ID).Msg("Discarding superseded scenario load")
		return s.stateLocked(), ErrLoadSuperseded
	}
	s.loading = false

	if loadErr == nil && scenario == nil {
		loadErr = errors.New("empty scenario")
	}
	if loadErr != nil {
		s.log.Warn().Err(loadErr).Str("mission_id", mission.ID).Msg("Scenario load failed")
		s.events.EmitTyped(eventModule, &events.ScenarioLoadFailedData{
			SessionID: s.id,
			MissionID: mission.ID,
			Symbol:    mission.Symbol,
			Error:     loadErr.Error(),
		})
		return s.stateLocked(), fmt.Errorf("%w: %w", ErrScenarioLoadFailed, loadErr)
	}

	if err := s.run.Start(mission, scenario); err != nil {
		s.log.Warn().Err(err).Str("mission_id", mission.ID).Msg("Mission could not start")
		return s.stateLocked(), err
	}

	s.log.Info().
		Str("mission_id", mission.ID).
		Str("start_date", s.run.Day().FullDate).
		Int("days", mission.DurationDays).
		Msg("Mission started")
	s.events.EmitTyped(eventModule, &events.MissionStartedData{
		SessionID:     s.id,
		MissionID:     mission.ID,
		Symbol:        mission.Symbol,
		StartDate:     s.run.Day().FullDate,
		DaysRemaining: mission.DurationDays,
		InitialCash:   s.run.initialCash,
	})
	return s.stateLocked(), nil
}

// AdvanceOneDay steps the run forward by one trading day
func (s *Session) AdvanceOneDay() (AdvanceResult, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	res := s.advanceLocked()
	return res, s.stateLocked()
}

// autoTick is the playback callback; stale ticks are dropped
func (s *Session) autoTick(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.player.IsCurrent(generation) || s.run.Phase() != PhasePlaying {
		return false
	}
	s.touch()

	res := s.advanceLocked()
	return res.Advanced && !res.Exhausted && s.run.Phase() == PhasePlaying
}

func (s *Session) advanceLocked() AdvanceResult {
	res := s.run.Advance()

	if res.Advanced {
		day := s.run.Day()
		portfolio := s.run.Portfolio()
		s.events.EmitTyped(eventModule, &events.DayAdvancedData{
			SessionID:     s.id,
			Date:          day.FullDate,
			Price:         day.Price,
			DaysRemaining: s.run.Status().DaysRemaining,
			NetWorth:      portfolio.NetWorth,
			ReturnPercent: portfolio.TotalReturnPercent,
		})
	}

	switch {
	case res.Finished:
		s.finishedLocked()
	case res.Exhausted:
		s.stopPlaybackLocked("exhausted")
	}
	return res
}

// SetAutoPlay turns the playback ticker on or off
func (s *Session) SetAutoPlay(enabled bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !enabled {
		s.stopPlaybackLocked("user")
		return s.stateLocked(), nil
	}

	if s.run.Phase() != PhasePlaying {
		return s.stateLocked(), ErrNotPlaying
	}
	if s.run.Exhausted() {
		return s.stateLocked(), nil
	}
	if s.player.Start() {
		s.events.EmitTyped(eventModule, &events.AutoPlayChangedData{
			SessionID: s.id,
			Enabled:   true,
			Reason:    "user",
		})
	}
	return s.stateLocked(), nil
}

// Buy purchases quantity shares at the current close. Rejections are not errors.
func (s *Session) Buy(quantity int) TradeResult {
	return s.trade(true, quantity)
}

// Sell sells quantity shares at the current close. Rejections are not errors.
func (s *Session) Sell(quantity int) TradeResult {
	return s.trade(false, quantity)
}

func (s *Session) trade(buy bool, quantity int) TradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	side := "BUY"
	execute := s.run.Buy
	if !buy {
		side = "SELL"
		execute = s.run.Sell
	}

	tx, err := execute(quantity)
	if err != nil {
		rejected := &events.TradeRejectedData{
			SessionID: s.id,
			Symbol:    s.run.Mission().Symbol,
			Side:      side,
			Quantity:  quantity,
			Reason:    err.Error(),
		}
		if day := s.run.Day(); day != nil {
			rejected.Price = day.Price
		}
		s.events.EmitTyped(eventModule, rejected)
		return TradeResult{Accepted: false, Reason: err.Error(), State: s.stateLocked()}
	}

	s.events.EmitTyped(eventModule, &events.TradeExecutedData{
		SessionID:     s.id,
		TransactionID: tx.ID,
		Symbol:        tx.Symbol,
		Side:          string(tx.Side),
		Quantity:      tx.Quantity,
		Price:         tx.Price,
		Date:          tx.Date,
	})
	if s.run.Phase() == PhaseFinished {
		s.finishedLocked()
	}
	return TradeResult{Accepted: true, Transaction: &tx, State: s.stateLocked()}
}

// ExitMission discards the current run (or pending load) and returns to Selecting
func (s *Session) ExitMission() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.loadGen++
	s.loading = false
	s.stopPlaybackLocked("exit")

	missionID := s.run.Mission().ID
	s.run.Exit()

	s.log.Info().Str("mission_id", missionID).Msg("Mission exited")
	s.events.EmitTyped(eventModule, &events.MissionExitedData{
		SessionID: s.id,
		MissionID: missionID,
	})
	return s.stateLocked()
}

// State returns a consistent copy of the session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Chart returns the visible window ending at the current day with an optional SMA overlay.
// windowSize <= 0 uses the configured default.
func (s *Session) Chart(windowSize, smaPeriod int) (ChartData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run.Phase() == PhaseSelecting {
		return ChartData{}, ErrNotPlaying
	}
	if windowSize <= 0 {
		windowSize = s.cfg.ChartWindow
	}

	candles := s.run.Chart(windowSize)
	data := ChartData{
		Symbol:  s.run.Mission().Symbol,
		Candles: candles,
	}
	if smaPeriod > 0 {
		data.SMAPeriod = smaPeriod
		data.SMA = series.MovingAverage(candles, smaPeriod)
	}
	return data, nil
}

// Close stops playback and waits for the ticker goroutine to exit
func (s *Session) Close() {
	s.mu.Lock()
	s.loadGen++
	s.loading = false
	s.player.Stop()
	s.mu.Unlock()

	s.player.Wait()
}

func (s *Session) finishedLocked() {
	s.stopPlaybackLocked("finished")

	res := s.run.Result()
	s.log.Info().
		Str("mission_id", res.MissionID).
		Str("outcome", string(res.Outcome)).
		Float64("return_pct", res.TotalReturnPercent).
		Msg("Mission finished")
	s.events.EmitTyped(eventModule, &events.MissionFinishedData{
		SessionID:     s.id,
		MissionID:     res.MissionID,
		Outcome:       string(res.Outcome),
		FinalNetWorth: res.FinalNetWorth,
		ReturnPercent: res.TotalReturnPercent,
		DaysPlayed:    res.DaysPlayed,
	})
}

func (s *Session) stopPlaybackLocked(reason string) {
	if !s.player.Stop() {
		return
	}
	s.events.EmitTyped(eventModule, &events.AutoPlayChangedData{
		SessionID: s.id,
		Enabled:   false,
		Reason:    reason,
	})
}

func (s *Session) touch() {
	s.lastActivity = s.now()
}

func (s *Session) stateLocked() State {
	status := s.run.Status()
	status.Loading = s.loading
	status.AutoPlay = s.player.Running()

	state := State{
		SessionID:    s.id,
		PlayerName:   s.playerName,
		Status:       status,
		Day:          s.run.Day(),
		Portfolio:    s.run.Portfolio(),
		Transactions: s.run.Transactions(),
		Result:       s.run.Result(),
	}

	if scenario := s.run.Scenario(); scenario != nil {
		newsItems := make([]domain.NewsItem, len(scenario.News))
		copy(newsItems, scenario.News)
		state.Market = &MarketContext{
			Quote:     scenario.Quote,
			Overview:  scenario.Overview,
			News:      newsItems,
			Sentiment: news.OverallSentiment(scenario.News),
		}
	}
	return state
}
