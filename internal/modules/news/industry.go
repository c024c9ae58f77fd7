package news

// DefaultIndustryPE is used for sectors without a reference value
const DefaultIndustryPE = 20.0

var industryAveragePE = map[string]float64{
	"Technology":             28,
	"Consumer Cyclical":      18,
	"Consumer Defensive":     22,
	"Healthcare":             25,
	"Financial Services":     15,
	"Energy":                 12,
	"Industrials":            20,
	"Communication Services": 20,
	"Utilities":              18,
	"Real Estate":            25,
	"Basic Materials":        16,
}

// IndustryAverage returns the reference P/E ratio for a sector
func IndustryAverage(sector string) float64 {
	if pe, ok := industryAveragePE[sector]; ok {
		return pe
	}
	return DefaultIndustryPE
}
