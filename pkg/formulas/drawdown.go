package formulas

import "math"

// CalculateMaxDrawdown calculates the maximum peak-to-trough decline.
//
// Drawdown at each point is (price - running max) / running max; the result is
// the magnitude of the deepest drawdown as a positive decimal (0.35 = 35%).
// Returns nil for an empty series.
func CalculateMaxDrawdown(series PriceSeries) *float64 {
	if len(series) == 0 {
		return nil
	}

	peak := series[0].Price
	deepest := 0.0
	for _, p := range series {
		if p.Price > peak {
			peak = p.Price
		}
		if peak <= 0 {
			continue
		}
		if drawdown := (p.Price - peak) / peak; drawdown < deepest {
			deepest = drawdown
		}
	}

	maxDrawdown := math.Abs(deepest)
	return &maxDrawdown
}
