package events

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeAndEmit(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got []*Event
	bus.Subscribe(DayAdvanced, func(e *Event) { got = append(got, e) })

	bus.Emit(DayAdvanced, "simulation", map[string]interface{}{"session_id": "s1"})
	bus.Emit(TradeExecuted, "simulation", nil)

	require.Len(t, got, 1)
	assert.Equal(t, DayAdvanced, got[0].Type)
	assert.Equal(t, "simulation", got[0].Module)
	assert.Equal(t, "s1", got[0].SessionID())
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	calls := 0
	ids := bus.SubscribeAll(func(*Event) { calls++ })
	assert.Equal(t, 1, bus.SubscriberCount(MissionStarted))

	bus.Emit(MissionStarted, "simulation", nil)
	bus.Unsubscribe(ids...)
	bus.Emit(MissionStarted, "simulation", nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscriberCount(MissionStarted))
}

func TestBus_HandlerPanicDoesNotStopFanOut(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	reached := false
	bus.Subscribe(TradeRejected, func(*Event) { panic("boom") })
	bus.Subscribe(TradeRejected, func(*Event) { reached = true })

	assert.NotPanics(t, func() { bus.Emit(TradeRejected, "simulation", nil) })
	assert.True(t, reached)
}

func TestBus_ConcurrentUse(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := bus.Subscribe(DayAdvanced, func(*Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			bus.Emit(DayAdvanced, "test", nil)
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.SubscriberCount(DayAdvanced))
	assert.Greater(t, count, 0)
}

func TestManager_EmitTyped(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, log)

	var got *Event
	bus.Subscribe(TradeExecuted, func(e *Event) { got = e })

	manager.EmitTyped("simulation", &TradeExecutedData{
		SessionID: "abc",
		Symbol:    "SPY",
		Side:      "BUY",
		Quantity:  10,
		Price:     100,
		Date:      "2020-02-18",
	})

	require.NotNil(t, got)
	assert.Equal(t, "abc", got.SessionID())
	assert.Equal(t, "SPY", got.Data["symbol"])
	assert.Equal(t, float64(10), got.Data["quantity"])
	assert.Contains(t, buf.String(), `"event_type":"TRADE_EXECUTED"`)
}

func TestManager_EmitError(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	manager := NewManager(bus, zerolog.Nop())

	var got *Event
	bus.Subscribe(ErrorOccurred, func(e *Event) { got = e })

	manager.EmitError("marketdata", errors.New("provider down"), map[string]interface{}{"symbol": "SPY"})

	require.NotNil(t, got)
	assert.Equal(t, "provider down", got.Data["error"])
	assert.Equal(t, "", got.SessionID())
}

func TestEventData_Types(t *testing.T) {
	tests := []struct {
		data     EventData
		expected EventType
	}{
		{&MissionStartedData{}, MissionStarted},
		{&DayAdvancedData{}, DayAdvanced},
		{&TradeExecutedData{}, TradeExecuted},
		{&TradeRejectedData{}, TradeRejected},
		{&AutoPlayChangedData{}, AutoPlayChanged},
		{&MissionFinishedData{}, MissionFinished},
		{&MissionExitedData{}, MissionExited},
		{&ScenarioLoadFailedData{}, ScenarioLoadFailed},
		{&ErrorEventData{}, ErrorOccurred},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.data.EventType())
			assert.Contains(t, AllTypes(), tt.expected)
		})
	}
}
