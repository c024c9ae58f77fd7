package simulation

import (
	"fmt"

	"github.com/aristath/hermes/internal/modules/ledger"
	"github.com/aristath/hermes/pkg/formulas"
)

// EquityPoint is the net worth at the close of one simulated day
type EquityPoint struct {
	FullDate string  `json:"fullDate"`
	NetWorth float64 `json:"netWorth"`
}

// Result summarises a finished mission
type Result struct {
	MissionID           string        `json:"missionId"`
	Symbol              string        `json:"symbol"`
	Outcome             Outcome       `json:"outcome"`
	Title               string        `json:"title"`
	Message             string        `json:"message"`
	FinalNetWorth       float64       `json:"finalNetWorth"`
	TotalReturnPercent  float64       `json:"totalReturnPercent"`
	TargetReturnPercent float64       `json:"targetReturnPercent"`
	DaysPlayed          int           `json:"daysPlayed"`
	TradeCount          int           `json:"tradeCount"`
	MaxDrawdownPercent  float64       `json:"maxDrawdownPercent"`
	VolatilityPercent   float64       `json:"volatilityPercent"` // std dev of daily equity returns
	EquityCurve         []EquityPoint `json:"equityCurve"`
}

func buildResult(r *Run, final ledger.Snapshot) *Result {
	values := make([]float64, len(r.equity))
	for i, p := range r.equity {
		values[i] = p.NetWorth
	}
	curve := make([]EquityPoint, len(r.equity))
	copy(curve, r.equity)

	drawdown := formulas.CalculateDrawdownMetrics(values)
	volatility := formulas.StdDev(formulas.CalculateReturns(values))

	res := &Result{
		MissionID:           r.mission.ID,
		Symbol:              r.mission.Symbol,
		Outcome:             r.outcome,
		FinalNetWorth:       final.NetWorth,
		TotalReturnPercent:  final.TotalReturnPercent,
		TargetReturnPercent: r.mission.TargetReturnPercent,
		DaysPlayed:          r.cursor - r.startIndex,
		TradeCount:          len(r.ledger.Transactions()),
		MaxDrawdownPercent:  drawdown.MaxDrawdown * 100,
		VolatilityPercent:   volatility * 100,
		EquityCurve:         curve,
	}

	if r.outcome == OutcomeWin {
		res.Title = "Mission Accomplished!"
		res.Message = fmt.Sprintf("Great trading! You reached the +%g%% profit goal in time.", r.mission.TargetReturnPercent)
	} else {
		res.Title = "Mission Failed"
		res.Message = "You ran out of time or funds. The market was tough."
	}
	return res
}
