package formulas

import "math"

// CalculateVolatility calculates annualized volatility from daily prices:
// std dev of day-over-day returns x sqrt(252).
// Returns nil when fewer than two returns are available.
func CalculateVolatility(series PriceSeries) *float64 {
	returns := CalculateReturns(series.Prices())
	if len(returns) < 2 {
		return nil
	}

	volatility := StdDev(returns) * math.Sqrt(TradingDaysPerYear)
	return &volatility
}

// CalculateDownsideVolatility annualizes the std dev of negative daily returns.
//
// A series without any negative return has a downside volatility of exactly
// 0.0: no downside observed is a measurement, not missing data. Returns nil for
// an empty series, or when a single negative return makes the sample std dev
// undefined.
func CalculateDownsideVolatility(series PriceSeries) *float64 {
	if len(series) == 0 {
		return nil
	}

	var downside []float64
	for _, r := range CalculateReturns(series.Prices()) {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	switch len(downside) {
	case 0:
		zero := 0.0
		return &zero
	case 1:
		return nil
	}

	volatility := StdDev(downside) * math.Sqrt(TradingDaysPerYear)
	return &volatility
}
