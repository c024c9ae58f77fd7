package formulas

// DrawdownMetrics represents drawdown analysis results
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"maxDrawdown"`     // fraction, 0.25 = 25% below peak
	CurrentDrawdown float64 `json:"currentDrawdown"` // from the running peak to the last value
	PeakValue       float64 `json:"peakValue"`
	CurrentValue    float64 `json:"currentValue"`
}

// CalculateDrawdownMetrics walks the series once tracking the running peak.
//
//	Drawdown = (Peak - Value) / Peak
//
// Series with fewer than two points have no drawdown.
func CalculateDrawdownMetrics(values []float64) DrawdownMetrics {
	if len(values) == 0 {
		return DrawdownMetrics{}
	}

	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	current := values[len(values)-1]
	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - current) / peak
	}

	return DrawdownMetrics{
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		PeakValue:       peak,
		CurrentValue:    current,
	}
}
