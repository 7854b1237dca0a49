package scoring

import (
	"math"
	"time"

	"github.com/aristath/factorlens/pkg/formulas"
)

var seriesStart = time.Date(2014, time.January, 2, 0, 0, 0, 0, time.UTC)

// dailySeries builds a series with one observation per calendar day
func dailySeries(prices ...float64) formulas.PriceSeries {
	series := make(formulas.PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = formulas.PricePoint{Date: seriesStart.AddDate(0, 0, i), Price: p}
	}
	return series
}

// flatSeries holds the price constant for n days
func flatSeries(price float64, n int) formulas.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return dailySeries(prices...)
}

// doublingSeries doubles the price every calendar year
func doublingSeries(years int) formulas.PriceSeries {
	n := int(float64(years)*365.25) + 1
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 * math.Pow(2, float64(i)/365.25)
	}
	return dailySeries(prices...)
}

// zigzagSeries alternates between two prices
func zigzagSeries(low, high float64, n int) formulas.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		if i%2 == 0 {
			prices[i] = low
		} else {
			prices[i] = high
		}
	}
	return dailySeries(prices...)
}

func ptr(v float64) *float64 {
	return &v
}
