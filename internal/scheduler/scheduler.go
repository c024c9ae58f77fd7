// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"time"

	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Maintenance schedules (seconds field first, UTC)
const (
	ScheduleSessionEviction    = "0 */5 * * * *"
	ScheduleCacheCleanup       = "0 0 * * * *"
	ScheduleRequestBudgetReset = "0 0 0 * * *"
	ScheduleWALCheck           = "0 30 */6 * * *"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron   *cron.Cron
	log    zerolog.Logger
	events *events.Manager
}

// New creates a new scheduler. Schedules are evaluated in UTC and take a seconds field.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// SetEventManager makes job failures visible as ERROR_OCCURRED events
func (s *Scheduler) SetEventManager(m *events.Manager) {
	s.events = m
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 0 * * *"        - Midnight
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.runJob(job)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.runJob(job)
}

func (s *Scheduler) runJob(job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	timer := utils.NewTimer("job:"+job.Name(), time.Minute, s.log)
	err := job.Run()
	timer.Stop()
	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
		if s.events != nil {
			s.events.EmitError("scheduler", err, map[string]interface{}{"job": job.Name()})
		}
		return err
	}
	s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	return nil
}
