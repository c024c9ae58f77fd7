package playback

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const testInterval = 5 * time.Millisecond

func TestPlayer_TicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	p := NewPlayer(testInterval, func(uint64) bool {
		ticks.Add(1)
		return true
	}, zerolog.Nop())

	assert.True(t, p.Start())
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	assert.True(t, p.Stop())
	p.Wait()
	assert.False(t, p.Running())

	after := ticks.Load()
	time.Sleep(5 * testInterval)
	assert.Equal(t, after, ticks.Load())
}

func TestPlayer_StartStopIdempotent(t *testing.T) {
	p := NewPlayer(time.Hour, func(uint64) bool { return true }, zerolog.Nop())

	assert.False(t, p.Stop())
	assert.True(t, p.Start())
	assert.False(t, p.Start())
	assert.True(t, p.Running())
	assert.True(t, p.Stop())
	assert.False(t, p.Stop())
	p.Wait()
}

func TestPlayer_TickFuncCanStopPlayback(t *testing.T) {
	var ticks atomic.Int32
	p := NewPlayer(testInterval, func(uint64) bool {
		return ticks.Add(1) < 2
	}, zerolog.Nop())

	p.Start()
	assert.Eventually(t, func() bool { return !p.Running() }, time.Second, time.Millisecond)
	p.Wait()
	assert.Equal(t, int32(2), ticks.Load())
}

func TestPlayer_StaleGenerationIsNotCurrent(t *testing.T) {
	gens := make(chan uint64, 16)
	p := NewPlayer(testInterval, func(g uint64) bool {
		select {
		case gens <- g:
		default:
		}
		return true
	}, zerolog.Nop())

	p.Start()
	first := <-gens
	assert.True(t, p.IsCurrent(first))

	p.Stop()
	assert.False(t, p.IsCurrent(first))

	p.Start()
	assert.False(t, p.IsCurrent(first))
	p.Stop()
	p.Wait()
}

func TestPlayer_StopFromInsideTick(t *testing.T) {
	var p *Player
	done := make(chan struct{})
	p = NewPlayer(testInterval, func(uint64) bool {
		p.Stop()
		close(done)
		return false
	}, zerolog.Nop())

	p.Start()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tick never fired")
	}
	p.Wait()
	assert.False(t, p.Running())
}

func TestNewPlayer_DefaultInterval(t *testing.T) {
	p := NewPlayer(0, func(uint64) bool { return true }, zerolog.Nop())
	assert.Equal(t, DefaultInterval, p.Interval())
}
