// Package playback drives auto-play: a repeating ticker that advances a mission
// run by one simulated day per tick.
package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the auto-play cadence
const DefaultInterval = 800 * time.Millisecond

// TickFunc is invoked once per tick with the generation the tick belongs to.
// Returning false stops playback.
//
// The callee must check the generation with IsCurrent under its own lock before
// mutating anything: a tick may already be in flight when Stop is called.
type TickFunc func(generation uint64) bool

// Player owns the ticker goroutine for one session
type Player struct {
	interval   time.Duration
	tick       TickFunc
	log        zerolog.Logger
	mu         sync.Mutex
	running    bool
	generation uint64
	stop       chan struct{}
	wg         sync.WaitGroup
}

// NewPlayer creates a stopped player
func NewPlayer(interval time.Duration, tick TickFunc, log zerolog.Logger) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{
		interval: interval,
		tick:     tick,
		log:      log.With().Str("component", "playback").Logger(),
	}
}

// Interval returns the tick period
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Start begins ticking. It is a no-op when already running and reports whether
// a new run was started.
func (p *Player) Start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return false
	}

	p.running = true
	p.generation++
	p.stop = make(chan struct{})

	p.wg.Add(1)
	go p.loop(p.generation, p.stop)

	p.log.Debug().Uint64("generation", p.generation).Dur("interval", p.interval).Msg("Playback started")
	return true
}

// Stop halts ticking without waiting for the goroutine to exit. Safe to call
// from inside a TickFunc. Reports whether the player was running.
func (p *Player) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Player) stopLocked() bool {
	if !p.running {
		return false
	}
	p.running = false
	p.generation++
	close(p.stop)
	p.log.Debug().Uint64("generation", p.generation).Msg("Playback stopped")
	return true
}

// Running reports whether auto-play is on
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// IsCurrent reports whether generation still belongs to the active run
func (p *Player) IsCurrent(generation uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running && p.generation == generation
}

// Wait blocks until every ticker goroutine has exited
func (p *Player) Wait() {
	p.wg.Wait()
}

func (p *Player) loop(generation uint64, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.tick(generation) {
				p.finish(generation)
				return
			}
		}
	}
}

// finish stops the run that generation belongs to, if it is still the active one
func (p *Player) finish(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == generation {
		p.stopLocked()
	}
}
