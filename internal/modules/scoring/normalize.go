// Package scoring turns price-derived metrics into benchmark-relative 0-100
// factor scores for single assets and portfolios.
package scoring

import (
	"math"

	"github.com/aristath/factorlens/pkg/formulas"
)

// Normalise maps value linearly onto 0-100 where higher is better.
// value <= worst scores 0, value >= best scores 100.
// NaN scores 0; callers exclude undefined metrics before normalising.
func Normalise(value, worst, best float64) float64 {
	if math.IsNaN(value) {
		return 0.0
	}
	if value <= worst {
		return 0.0
	}
	if value >= best {
		return 100.0
	}

	return formulas.Round1(100 * (value - worst) / (best - worst))
}

// NormaliseInverse maps value linearly onto 0-100 where lower is better.
// value <= best scores 100, value >= worst scores 0.
func NormaliseInverse(value, best, worst float64) float64 {
	if math.IsNaN(value) {
		return 0.0
	}
	if value <= best {
		return 100.0
	}
	if value >= worst {
		return 0.0
	}

	return formulas.Round1(100 * (worst - value) / (worst - best))
}
