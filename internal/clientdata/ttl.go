package clientdata

import "time"

// TTL constants for cached provider responses.
// These are added to time.Now() when storing to calculate expires_at.
const (
	TTLOverview = 24 * time.Hour   // Company overview, P/E, sector
	TTLHistory  = 6 * time.Hour    // Daily candles, refreshed after the close
	TTLNews     = time.Hour        // Headlines
	TTLQuote    = 15 * time.Minute // Latest quote
)
