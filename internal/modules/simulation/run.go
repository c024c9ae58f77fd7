package simulation

import (
	"fmt"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/modules/ledger"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/modules/series"
)

// Run is the mission state machine: Selecting -> Playing -> Finished, and back
// to Selecting only through Exit.
//
// Termination is evaluated synchronously as the last step of every advance and
// every accepted trade. A Run is not safe for concurrent use.
type Run struct {
	initialCash float64

	phase         Phase
	mission       missions.Definition
	scenario      *domain.Scenario
	history       []domain.Candle
	startIndex    int
	cursor        int
	daysRemaining int
	outcome       Outcome
	ledger        *ledger.Ledger
	equity        []EquityPoint

	// frozen on finish
	finalDay       *series.DaySnapshot
	finalPortfolio *ledger.Snapshot
	result         *Result
}

// NewRun creates a run in the Selecting phase
func NewRun(initialCash float64) *Run {
	if initialCash <= 0 {
		initialCash = ledger.DefaultInitialCash
	}
	return &Run{initialCash: initialCash, phase: PhaseSelecting}
}

// Phase returns the current phase
func (r *Run) Phase() Phase {
	return r.phase
}

// Mission returns the active mission; zero value in Selecting
func (r *Run) Mission() missions.Definition {
	return r.mission
}

// Scenario returns the loaded market data; nil in Selecting
func (r *Run) Scenario() *domain.Scenario {
	return r.scenario
}

// Start begins mission against the scenario's history. On error the run is left untouched.
func (r *Run) Start(mission missions.Definition, scenario *domain.Scenario) error {
	if scenario == nil || len(scenario.History) == 0 {
		return fmt.Errorf("mission %s: %w", mission.ID, series.ErrStartDateNotFound)
	}

	startIndex, err := series.LocateStartIndex(scenario.History, mission.StartDate)
	if err != nil {
		return fmt.Errorf("mission %s: %w", mission.ID, err)
	}

	r.reset()
	r.phase = PhasePlaying
	r.mission = mission
	r.scenario = scenario
	r.history = scenario.History
	r.startIndex = startIndex
	r.cursor = startIndex
	r.daysRemaining = mission.DurationDays
	r.ledger = ledger.New(mission.Symbol, r.initialCash)
	r.recordEquity()
	return nil
}

// Advance moves one trading day forward. At the last candle of the series nothing
// changes and Exhausted is reported.
func (r *Run) Advance() AdvanceResult {
	if r.phase != PhasePlaying {
		return AdvanceResult{}
	}

	next, exhausted := series.Advance(r.history, r.cursor)
	if exhausted {
		return AdvanceResult{Exhausted: true}
	}

	r.cursor = next
	r.daysRemaining--
	r.recordEquity()

	return AdvanceResult{
		Advanced:  true,
		Exhausted: series.IsLast(r.history, r.cursor),
		Finished:  r.evaluate(),
	}
}

// Buy executes a market buy at the current close
func (r *Run) Buy(quantity int) (ledger.Transaction, error) {
	return r.trade(ledger.TradeSideBuy, quantity)
}

// Sell executes a market sell at the current close
func (r *Run) Sell(quantity int) (ledger.Transaction, error) {
	return r.trade(ledger.TradeSideSell, quantity)
}

func (r *Run) trade(side ledger.TradeSide, quantity int) (ledger.Transaction, error) {
	if r.phase != PhasePlaying {
		return ledger.Transaction{}, ErrNotPlaying
	}

	candle := r.history[r.cursor]
	var (
		tx  ledger.Transaction
		err error
	)
	if side == ledger.TradeSideBuy {
		tx, err = r.ledger.Buy(quantity, candle.Close, candle.FullDate)
	} else {
		tx, err = r.ledger.Sell(quantity, candle.Close, candle.FullDate)
	}
	if err != nil {
		return ledger.Transaction{}, err
	}

	r.evaluate()
	return tx, nil
}

// evaluate applies the termination rule and reports whether the run just finished.
// The win check comes first so reaching the target on the final day is a win.
func (r *Run) evaluate() bool {
	if r.phase != PhasePlaying {
		return false
	}
	if r.ledger.TotalReturnPercent(r.currentPrice()) >= r.mission.TargetReturnPercent {
		r.finish(OutcomeWin)
		return true
	}
	if r.daysRemaining <= 0 {
		r.finish(OutcomeLoss)
		return true
	}
	return false
}

func (r *Run) finish(outcome Outcome) {
	r.phase = PhaseFinished
	r.outcome = outcome

	day := r.liveDay()
	portfolio := r.ledger.Snapshot(day.Price)
	r.finalDay = &day
	r.finalPortfolio = &portfolio
	r.result = buildResult(r, portfolio)
}

// Exit discards the run and its ledger
func (r *Run) Exit() {
	r.reset()
	r.phase = PhaseSelecting
}

func (r *Run) reset() {
	r.mission = missions.Definition{}
	r.scenario = nil
	r.history = nil
	r.startIndex = 0
	r.cursor = 0
	r.daysRemaining = 0
	r.outcome = OutcomeNone
	r.ledger = nil
	r.equity = nil
	r.finalDay = nil
	r.finalPortfolio = nil
	r.result = nil
}

func (r *Run) currentPrice() float64 {
	return r.history[r.cursor].Close
}

func (r *Run) liveDay() series.DaySnapshot {
	return series.SnapshotAt(r.mission.Symbol, r.history, r.cursor)
}

func (r *Run) recordEquity() {
	c := r.history[r.cursor]
	r.equity = append(r.equity, EquityPoint{
		FullDate: c.FullDate,
		NetWorth: r.ledger.NetWorth(c.Close),
	})
}

// Status returns the phase summary
func (r *Run) Status() Status {
	return Status{
		Phase:         r.phase,
		MissionID:     r.mission.ID,
		DaysRemaining: r.daysRemaining,
		Outcome:       r.outcome,
	}
}

// Day returns the current day snapshot, frozen once finished; nil in Selecting
func (r *Run) Day() *series.DaySnapshot {
	switch r.phase {
	case PhasePlaying:
		day := r.liveDay()
		return &day
	case PhaseFinished:
		day := *r.finalDay
		return &day
	default:
		return nil
	}
}

// Portfolio returns the mark-to-market ledger view; nil in Selecting
func (r *Run) Portfolio() *PortfolioView {
	var snap ledger.Snapshot
	switch r.phase {
	case PhasePlaying:
		snap = r.ledger.Snapshot(r.currentPrice())
	case PhaseFinished:
		snap = *r.finalPortfolio
	default:
		return nil
	}
	return &PortfolioView{
		Snapshot:            snap,
		TargetReturnPercent: r.mission.TargetReturnPercent,
		ProgressPercent:     ProgressPercent(snap.TotalReturnPercent, r.mission.TargetReturnPercent),
	}
}

// Exhausted reports whether the cursor sits on the last candle of the series
func (r *Run) Exhausted() bool {
	if r.phase == PhaseSelecting {
		return false
	}
	return series.IsLast(r.history, r.cursor)
}

// Transactions returns the trade log, most recent first
func (r *Run) Transactions() []ledger.Transaction {
	if r.ledger == nil {
		return []ledger.Transaction{}
	}
	return r.ledger.Transactions()
}

// Result returns the finished run's statistics; nil until finished
func (r *Run) Result() *Result {
	if r.result == nil {
		return nil
	}
	res := *r.result
	return &res
}

// Chart returns the visible window ending at the current day
func (r *Run) Chart(windowSize int) []domain.Candle {
	if r.phase == PhaseSelecting {
		return nil
	}
	return series.VisibleWindow(r.history, r.cursor, windowSize)
}

// ProgressPercent is how far the return is toward the target, clamped to [0, 100]
func ProgressPercent(returnPercent, targetPercent float64) float64 {
	if targetPercent <= 0 {
		return 0
	}
	p := returnPercent / targetPercent * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
