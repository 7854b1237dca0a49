// Package formulas derives risk and return statistics from price histories.
//
// Every function is a pure function of its input. Metrics that cannot be
// computed from the available data are returned as nil rather than zero so
// callers can exclude them from aggregation.
package formulas

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrEmptySeries is returned when a series has no observations
	ErrEmptySeries = errors.New("price series is empty")
	// ErrUnorderedSeries is returned when dates are not strictly ascending
	ErrUnorderedSeries = errors.New("price series dates must be strictly ascending")
	// ErrNonPositivePrice is returned when a price is zero or negative
	ErrNonPositivePrice = errors.New("price series contains a non-positive price")
)

// PricePoint is a single dated (adjusted) closing price
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries is a date-ordered sequence of prices for one ticker
type PriceSeries []PricePoint

// Validate checks the series is non-empty, strictly ascending by date and
// contains only positive prices.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}

	for i, p := range s {
		if p.Price <= 0 {
			return fmt.Errorf("%w: %v on %s", ErrNonPositivePrice, p.Price, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !p.Date.After(s[i-1].Date) {
			return fmt.Errorf("%w: %s follows %s", ErrUnorderedSeries,
				p.Date.Format("2006-01-02"), s[i-1].Date.Format("2006-01-02"))
		}
	}

	return nil
}

// Prices returns the raw price values in date order
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s))
	for i, p := range s {
		prices[i] = p.Price
	}
	return prices
}

// Since returns the trailing part of the series dated on or after start.
// The series must already be sorted.
func (s PriceSeries) Since(start time.Time) PriceSeries {
	idx := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(start)
	})
	return s[idx:]
}

// FirstDate returns the date of the oldest observation (zero time if empty)
func (s PriceSeries) FirstDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

// LastDate returns the date of the newest observation (zero time if empty)
func (s PriceSeries) LastDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}
