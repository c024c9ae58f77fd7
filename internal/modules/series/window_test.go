package series

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hermes/internal/domain"
)

// tenDays builds 2020-01-01..2020-01-10 with closes 100, 101, ... 109
func tenDays() []domain.Candle {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Candle, 10)
	for i := range out {
		price := 100 + float64(i)
		out[i] = domain.NewCandle(start.AddDate(0, 0, i), price, price+1, price-1, price, int64(1000+i))
	}
	return out
}

func TestLocateStartIndex(t *testing.T) {
	candles := tenDays()

	tests := []struct {
		name      string
		startDate string
		expected  int
	}{
		{"exact match", "2020-01-05", 4},
		{"first day", "2020-01-01", 0},
		{"before range", "2019-12-25", 0},
		{"last day", "2020-01-10", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := LocateStartIndex(candles, tt.startDate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, idx)
		})
	}
}

func TestLocateStartIndex_GapPicksNextTradingDay(t *testing.T) {
	candles := tenDays()
	// Remove 2020-01-05 and 2020-01-06 (a weekend)
	candles = append(candles[:4:4], candles[6:]...)

	idx, err := LocateStartIndex(candles, "2020-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-07", candles[idx].FullDate)
}

func TestLocateStartIndex_BeyondRange(t *testing.T) {
	idx, err := LocateStartIndex(tenDays(), "2020-01-11")
	assert.True(t, errors.Is(err, ErrStartDateNotFound))
	assert.Equal(t, -1, idx)

	_, err = LocateStartIndex(nil, "2020-01-01")
	assert.True(t, errors.Is(err, ErrStartDateNotFound))
}

func TestAdvance(t *testing.T) {
	candles := tenDays()

	next, exhausted := Advance(candles, 3)
	assert.Equal(t, 4, next)
	assert.False(t, exhausted)

	next, exhausted = Advance(candles, 8)
	assert.Equal(t, 9, next)
	assert.False(t, exhausted)
}

func TestAdvance_IdempotentAtLastIndex(t *testing.T) {
	candles := tenDays()

	idx := 9
	for i := 0; i < 5; i++ {
		var exhausted bool
		idx, exhausted = Advance(candles, idx)
		assert.True(t, exhausted)
		assert.Equal(t, 9, idx)
	}
	assert.True(t, IsLast(candles, idx))
}

func TestVisibleWindow(t *testing.T) {
	candles := tenDays()

	w := VisibleWindow(candles, 5, 3)
	require.Len(t, w, 4)
	assert.Equal(t, "2020-01-03", w[0].FullDate)
	assert.Equal(t, "2020-01-06", w[3].FullDate)

	// Clamped at the start of the series
	w = VisibleWindow(candles, 1, 100)
	require.Len(t, w, 2)
	assert.Equal(t, "2020-01-01", w[0].FullDate)

	// Window size zero shows only the current day
	w = VisibleWindow(candles, 4, 0)
	require.Len(t, w, 1)
	assert.Equal(t, "2020-01-05", w[0].FullDate)

	assert.Nil(t, VisibleWindow(nil, 0, 10))
}

func TestVisibleWindow_DoesNotAliasSeries(t *testing.T) {
	candles := tenDays()

	w := VisibleWindow(candles, 2, 2)
	w[0].Close = -1

	assert.Equal(t, 100.0, candles[0].Close)
}

func TestDailyChange(t *testing.T) {
	candles := tenDays()

	assert.Equal(t, 0.0, DailyChange(candles, 0))
	assert.InDelta(t, 0.01, DailyChange(candles, 1), 1e-12)
	assert.InDelta(t, 1.0/108.0, DailyChange(candles, 9), 1e-12)
}

func TestSnapshotAt(t *testing.T) {
	candles := tenDays()

	s := SnapshotAt("SPY", candles, 1)
	assert.Equal(t, "SPY", s.Symbol)
	assert.Equal(t, 101.0, s.Price)
	assert.Equal(t, 1.0, s.Change)
	assert.InDelta(t, 1.0, s.ChangePercent, 1e-9)
	assert.Equal(t, 102.0, s.High)
	assert.Equal(t, 100.0, s.Low)
	assert.Equal(t, 101.0, s.Open)
	assert.Equal(t, int64(1001), s.Volume)
	assert.Equal(t, "2020-01-02", s.FullDate)
	assert.Equal(t, "Jan 2", s.Date)

	first := SnapshotAt("SPY", candles, 0)
	assert.Equal(t, 0.0, first.Change)
	assert.Equal(t, 0.0, first.ChangePercent)
}
