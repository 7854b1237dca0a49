package formulas

import "math"

// CalculateCAGR calculates the Compound Annual Growth Rate over the trailing
// window of `years` calendar years ending at the last observation.
//
// Formula: CAGR = (End Price / Start Price)^(1/years) - 1
//
// Returns CAGR as decimal (e.g., 0.11 = 11%) or nil when fewer than two
// observations fall inside the window.
func CalculateCAGR(series PriceSeries, years int) *float64 {
	if len(series) == 0 || years <= 0 {
		return nil
	}

	start := series.LastDate().AddDate(-years, 0, 0)
	window := series.Since(start)
	if len(window) < 2 {
		return nil
	}

	startPrice := window[0].Price
	endPrice := window[len(window)-1].Price
	if startPrice <= 0 || endPrice < 0 {
		return nil
	}

	cagr := math.Pow(endPrice/startPrice, 1/float64(years)) - 1
	return &cagr
}
