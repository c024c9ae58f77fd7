package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// SessionEvicter closes sessions idle for longer than a limit
type SessionEvicter interface {
	EvictIdle(maxIdle time.Duration) int
}

// SessionEvictionJob stops playback and drops idle sessions
type SessionEvictionJob struct {
	sessions SessionEvicter
	maxIdle  time.Duration
	log      zerolog.Logger
}

// NewSessionEvictionJob creates a new session eviction job
func NewSessionEvictionJob(sessions SessionEvicter, maxIdle time.Duration, log zerolog.Logger) *SessionEvictionJob {
	return &SessionEvictionJob{
		sessions: sessions,
		maxIdle:  maxIdle,
		log:      log.With().Str("job", "session_eviction").Logger(),
	}
}

// Name returns the job name
func (j *SessionEvictionJob) Name() string {
	return "session_eviction"
}

// Run evicts idle sessions
func (j *SessionEvictionJob) Run() error {
	evicted := j.sessions.EvictIdle(j.maxIdle)
	if evicted > 0 {
		j.log.Info().Int("evicted", evicted).Msg("Idle sessions evicted")
	}
	return nil
}
