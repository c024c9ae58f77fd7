// Package simulation runs trading missions: it replays a historical price series
// one day at a time, executes paper trades and decides win or loss.
package simulation

import (
	"errors"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/modules/ledger"
	"github.com/aristath/hermes/internal/modules/series"
)

// Phase is the lifecycle state of a mission run
type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
)

// Outcome is the verdict of a finished run
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

var (
	// ErrScenarioLoadFailed is returned when market data for a mission could not be loaded
	ErrScenarioLoadFailed = errors.New("scenario load failed")
	// ErrNotPlaying is returned for commands that need a mission in progress
	ErrNotPlaying = errors.New("no mission in progress")
	// ErrSessionNotFound is returned by the registry for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrMissionActive is returned when starting a mission while another one has not been exited
	ErrMissionActive = errors.New("a mission is already active")
	// ErrLoadSuperseded is returned to a start whose load was overtaken by an exit or a newer start
	ErrLoadSuperseded = errors.New("mission start superseded")
	// ErrInvalidPlayerName is returned when creating a session without a player name
	ErrInvalidPlayerName = errors.New("player name is required")
)

// Status summarises where a run is
type Status struct {
	Phase         Phase   `json:"phase"`
	MissionID     string  `json:"missionId,omitempty"`
	DaysRemaining int     `json:"daysRemaining"`
	Outcome       Outcome `json:"outcome,omitempty"`
	Loading       bool    `json:"loading"`
	AutoPlay      bool    `json:"autoPlay"`
}

// PortfolioView is the ledger snapshot plus progress toward the mission target
type PortfolioView struct {
	ledger.Snapshot
	TargetReturnPercent float64 `json:"targetReturnPercent"`
	ProgressPercent     float64 `json:"progressPercent"`
}

// MarketContext is the non-price part of a loaded scenario shown next to the chart
type MarketContext struct {
	Quote     domain.Quote      `json:"quote"`
	Overview  domain.Overview   `json:"overview"`
	News      []domain.NewsItem `json:"news"`
	Sentiment domain.Sentiment  `json:"sentiment"`
}

// State is the full externally visible state of a session
type State struct {
	SessionID    string               `json:"sessionId"`
	PlayerName   string               `json:"playerName"`
	Status       Status               `json:"status"`
	Day          *series.DaySnapshot  `json:"day,omitempty"`
	Portfolio    *PortfolioView       `json:"portfolio,omitempty"`
	Transactions []ledger.Transaction `json:"transactions"`
	Result       *Result              `json:"result,omitempty"`
	Market       *MarketContext       `json:"market,omitempty"`
}

// ChartData is the visible price window with an optional moving average overlay
type ChartData struct {
	Symbol    string                `json:"symbol"`
	Candles   []domain.Candle       `json:"candles"`
	SMAPeriod int                   `json:"smaPeriod,omitempty"`
	SMA       []series.OverlayPoint `json:"sma,omitempty"`
}

// TradeResult reports whether an order was accepted
type TradeResult struct {
	Accepted    bool                `json:"accepted"`
	Reason      string              `json:"reason,omitempty"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
	State       State               `json:"state"`
}

// AdvanceResult reports what a single day step did
type AdvanceResult struct {
	Advanced  bool `json:"advanced"`
	Exhausted bool `json:"exhausted"`
	Finished  bool `json:"finished"`
}
