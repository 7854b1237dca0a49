package formulas

import "time"

var seriesStart = time.Date(2015, time.January, 2, 0, 0, 0, 0, time.UTC)

// dailySeries builds a series with one observation per calendar day.
func dailySeries(prices ...float64) PriceSeries {
	series := make(PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = PricePoint{Date: seriesStart.AddDate(0, 0, i), Price: p}
	}
	return series
}

// yearlySeries builds a series with one observation per year.
func yearlySeries(prices ...float64) PriceSeries {
	series := make(PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = PricePoint{Date: seriesStart.AddDate(i, 0, 0), Price: p}
	}
	return series
}

// compounding returns n prices growing by the given daily rate.
func compounding(start, dailyRate float64, n int) []float64 {
	prices := make([]float64, n)
	price := start
	for i := range prices {
		prices[i] = price
		price *= 1 + dailyRate
	}
	return prices
}
