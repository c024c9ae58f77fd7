// Package series exposes the slice of a historical candle series visible at a simulated day.
//
// Functions here never mutate the series. They assume it is sorted ascending by FullDate,
// which the market data provider guarantees.
package series

import (
	"errors"
	"fmt"

	"github.com/aristath/hermes/internal/domain"
)

// DefaultWindowSize is the number of days shown before the current day on the mission chart
const DefaultWindowSize = 100

// ErrStartDateNotFound means no candle exists on or after the requested start date
var ErrStartDateNotFound = errors.New("start date not found in history")

// LocateStartIndex returns the smallest index whose FullDate is on or after startDate.
// startDate uses the YYYY-MM-DD layout, so lexical and chronological order agree.
func LocateStartIndex(candles []domain.Candle, startDate string) (int, error) {
	lo, hi := 0, len(candles)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if candles[mid].FullDate < startDate {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(candles) {
		return -1, fmt.Errorf("%w: %s (series has %d candles)", ErrStartDateNotFound, startDate, len(candles))
	}
	return lo, nil
}

// Advance moves the cursor one day forward. At the last index it returns the index unchanged
// and exhausted=true; this is a boundary, not an error.
func Advance(candles []domain.Candle, index int) (next int, exhausted bool) {
	last := len(candles) - 1
	if index >= last {
		if last < 0 {
			return index, true
		}
		return last, true
	}
	return index + 1, false
}

// IsLast reports whether index is the final candle of the series
func IsLast(candles []domain.Candle, index int) bool {
	return index >= len(candles)-1
}

// VisibleWindow returns the inclusive slice [max(0, index-windowSize), index].
// It is for chart display only; financial calculations read single candles.
func VisibleWindow(candles []domain.Candle, index, windowSize int) []domain.Candle {
	if len(candles) == 0 || index < 0 {
		return nil
	}
	if index >= len(candles) {
		index = len(candles) - 1
	}
	if windowSize < 0 {
		windowSize = 0
	}
	start := index - windowSize
	if start < 0 {
		start = 0
	}
	out := make([]domain.Candle, index-start+1)
	copy(out, candles[start:index+1])
	return out
}

// DailyChange returns the fractional close-to-close change at index.
// On the first candle the previous close is the current one, so the change is 0.
func DailyChange(candles []domain.Candle, index int) float64 {
	current, previous := closes(candles, index)
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous
}

func closes(candles []domain.Candle, index int) (current, previous float64) {
	current = candles[index].Close
	previous = current
	if index > 0 {
		previous = candles[index-1].Close
	}
	return current, previous
}
