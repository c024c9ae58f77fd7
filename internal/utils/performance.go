package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer measures one operation and logs its duration when stopped
type Timer struct {
	start time.Time
	name  string
	slow  time.Duration
	log   zerolog.Logger
}

// NewTimer starts a timer. Durations above slow are logged at warn level;
// a zero slow threshold disables the warning.
func NewTimer(name string, slow time.Duration, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		slow:  slow,
		log:   log,
	}
}

// Stop logs the elapsed time and returns it
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Msg("Operation completed")

	if t.slow > 0 && duration > t.slow {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Dur("threshold", t.slow).
			Msg("Slow operation detected")
	}

	return duration
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	defer utils.OperationTimer("load_scenario", 5*time.Second, log)()
func OperationTimer(operation string, slow time.Duration, log zerolog.Logger) func() {
	t := NewTimer(operation, slow, log)
	return func() { t.Stop() }
}
