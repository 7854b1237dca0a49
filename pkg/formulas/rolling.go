package formulas

import "math"

// DefaultRollingWindowYears is the look-back used for return consistency
const DefaultRollingWindowYears = 3

// RollingCAGR computes, for every position, the CAGR between that price and
// the price windowYears*252 observations earlier. Positions without a full
// look-back are nil.
func RollingCAGR(prices []float64, windowYears int) []*float64 {
	rolling := make([]*float64, len(prices))
	if windowYears <= 0 {
		return rolling
	}

	lag := windowYears * TradingDaysPerYear
	for i := lag; i < len(prices); i++ {
		base := prices[i-lag]
		if base <= 0 {
			continue
		}
		ratio := prices[i] / base
		cagr := math.Pow(ratio, 1/float64(windowYears)) - 1
		rolling[i] = &cagr
	}

	return rolling
}

// RollingReturnConsistency returns the percentage (0-100) of rolling CAGR
// observations that are strictly positive, or nil if no rolling window fits
// inside the series.
func RollingReturnConsistency(series PriceSeries, windowYears int) *float64 {
	rolling := RollingCAGR(series.Prices(), windowYears)

	defined, positive := 0, 0
	for _, r := range rolling {
		if r == nil {
			continue
		}
		defined++
		if *r > 0 {
			positive++
		}
	}

	if defined == 0 {
		return nil
	}

	consistency := float64(positive) / float64(defined) * 100
	return &consistency
}
