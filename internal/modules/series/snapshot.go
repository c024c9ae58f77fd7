package series

import "github.com/aristath/hermes/internal/domain"

// DaySnapshot is the derived view of the current simulated day
type DaySnapshot struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	Date          string  `json:"date"`
	FullDate      string  `json:"fullDate"`
}

// SnapshotAt derives the day snapshot for the candle at index
func SnapshotAt(symbol string, candles []domain.Candle, index int) DaySnapshot {
	c := candles[index]
	current, previous := closes(candles, index)
	return DaySnapshot{
		Symbol:        symbol,
		Price:         c.Close,
		Change:        current - previous,
		ChangePercent: DailyChange(candles, index) * 100,
		Volume:        c.Volume,
		High:          c.High,
		Low:           c.Low,
		Open:          c.Open,
		Date:          c.Date,
		FullDate:      c.FullDate,
	}
}
