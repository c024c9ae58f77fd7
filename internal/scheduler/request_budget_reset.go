package scheduler

import (
	"github.com/rs/zerolog"
)

// RequestBudget is a provider client with a daily request allowance
type RequestBudget interface {
	GetRemainingRequests() int
	ResetDailyCounter()
}

// RequestBudgetResetJob restores the market data provider's daily allowance
type RequestBudgetResetJob struct {
	client RequestBudget
	log    zerolog.Logger
}

// NewRequestBudgetResetJob creates a new request budget reset job
func NewRequestBudgetResetJob(client RequestBudget, log zerolog.Logger) *RequestBudgetResetJob {
	return &RequestBudgetResetJob{
		client: client,
		log:    log.With().Str("job", "request_budget_reset").Logger(),
	}
}

// Name returns the job name
func (j *RequestBudgetResetJob) Name() string {
	return "request_budget_reset"
}

// Run resets the counter
func (j *RequestBudgetResetJob) Run() error {
	before := j.client.GetRemainingRequests()
	j.client.ResetDailyCounter()

	j.log.Info().
		Int("remaining_before", before).
		Int("remaining", j.client.GetRemainingRequests()).
		Msg("Daily request budget reset")
	return nil
}
