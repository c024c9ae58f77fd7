package series

import (
	"math"

	"github.com/markcheno/go-talib"

	"github.com/aristath/hermes/internal/domain"
)

// OverlayPoint is one value of a chart indicator; Value is nil while the indicator warms up
type OverlayPoint struct {
	FullDate string   `json:"fullDate"`
	Value    *float64 `json:"value"`
}

// MovingAverage computes a simple moving average of closes over the given window.
// Points before the first full period carry a nil value.
func MovingAverage(window []domain.Candle, period int) []OverlayPoint {
	points := make([]OverlayPoint, len(window))
	for i, c := range window {
		points[i].FullDate = c.FullDate
	}
	if period <= 0 || len(window) < period {
		return points
	}

	closes := make([]float64, len(window))
	for i, c := range window {
		closes[i] = c.Close
	}

	sma := talib.Sma(closes, period)
	for i := period - 1; i < len(sma); i++ {
		v := sma[i]
		if math.IsNaN(v) {
			continue
		}
		points[i].Value = &v
	}
	return points
}
