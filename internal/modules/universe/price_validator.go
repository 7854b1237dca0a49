package universe

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/domain"
)

const (
	// Validation thresholds
	maxPriceChangePercent = 1000.0 // >1000% change is a spike
	minPriceChangePercent = -90.0  // <-90% change is a crash
	maxRevertRatio        = 2.0    // Neighbours within 2x of each other mean the move reverted
	minRevertRatio        = 0.5
)

// InterpolationLog records when a price was interpolated
type InterpolationLog struct {
	Date              string
	OriginalClose     float64
	InterpolatedClose float64
	Reason            string
}

// PriceValidator repairs single-day glitches in provider data.
//
// A point is a glitch when it jumps more than +1000% or falls more than 90%
// from the previous close and the next close returns to the previous level.
// Sustained moves are real and kept.
type PriceValidator struct {
	log zerolog.Logger
}

// NewPriceValidator creates a new price validator
func NewPriceValidator(log zerolog.Logger) *PriceValidator {
	return &PriceValidator{
		log: log.With().Str("component", "price_validator").Logger(),
	}
}

// ValidatePrice checks the close at prices[i] against its neighbours.
// Returns (isValid, reason).
func (v *PriceValidator) ValidatePrice(prices []domain.DailyPrice, i int) (bool, string) {
	price := prices[i].AdjClose
	if price <= 0 {
		return false, "non_positive"
	}
	if i == 0 || i == len(prices)-1 {
		return true, ""
	}

	prev, next := prices[i-1].AdjClose, prices[i+1].AdjClose
	if prev <= 0 || next <= 0 {
		return true, ""
	}

	reverted := next/prev <= maxRevertRatio && next/prev >= minRevertRatio
	changePercent := (price - prev) / prev * 100.0
	switch {
	case changePercent > maxPriceChangePercent && reverted:
		return false, "spike_detected"
	case changePercent < minPriceChangePercent && reverted:
		return false, "crash_detected"
	}

	return true, ""
}

// InterpolatePrice replaces the close at prices[i] by linear interpolation
// between its neighbours by calendar date.
func (v *PriceValidator) InterpolatePrice(prices []domain.DailyPrice, i int) (domain.DailyPrice, error) {
	interpolated := prices[i]
	if i == 0 || i == len(prices)-1 {
		return interpolated, fmt.Errorf("cannot interpolate edge price on %s", interpolated.Date)
	}

	before, after := prices[i-1], prices[i+1]
	priceDate, err := time.Parse("2006-01-02", interpolated.Date)
	if err != nil {
		return interpolated, fmt.Errorf("failed to parse price date: %w", err)
	}
	beforeDate, err := time.Parse("2006-01-02", before.Date)
	if err != nil {
		return interpolated, fmt.Errorf("failed to parse before date: %w", err)
	}
	afterDate, err := time.Parse("2006-01-02", after.Date)
	if err != nil {
		return interpolated, fmt.Errorf("failed to parse after date: %w", err)
	}

	totalDays := afterDate.Sub(beforeDate).Hours() / 24.0
	if totalDays <= 0 {
		return interpolated, fmt.Errorf("invalid date range: totalDays <= 0")
	}
	daysBetween := priceDate.Sub(beforeDate).Hours() / 24.0

	weight := daysBetween / totalDays
	interpolated.AdjClose = before.AdjClose + (after.AdjClose-before.AdjClose)*weight
	interpolated.Close = before.Close + (after.Close-before.Close)*weight

	return interpolated, nil
}

// ValidateAndInterpolate returns a copy of prices with glitches interpolated.
// Non-positive closes that cannot be interpolated are dropped.
func (v *PriceValidator) ValidateAndInterpolate(prices []domain.DailyPrice) ([]domain.DailyPrice, []InterpolationLog) {
	result := make([]domain.DailyPrice, 0, len(prices))
	logs := []InterpolationLog{}

	for i, price := range prices {
		valid, reason := v.ValidatePrice(prices, i)
		if valid {
			result = append(result, price)
			continue
		}

		interpolated, err := v.InterpolatePrice(prices, i)
		if err != nil || interpolated.AdjClose <= 0 {
			v.log.Warn().
				Str("date", price.Date).
				Float64("close", price.AdjClose).
				Str("reason", reason).
				Msg("Dropped abnormal price")
			continue
		}

		logs = append(logs, InterpolationLog{
			Date:              price.Date,
			OriginalClose:     price.AdjClose,
			InterpolatedClose: interpolated.AdjClose,
			Reason:            reason,
		})

		v.log.Warn().
			Str("date", price.Date).
			Float64("original_close", price.AdjClose).
			Float64("interpolated_close", interpolated.AdjClose).
			Str("reason", reason).
			Msg("Interpolated abnormal price")

		result = append(result, interpolated)
	}

	return result, logs
}
