package universe

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlens/internal/domain"
	testingpkg "github.com/aristath/factorlens/internal/testing"
)

func priceRun(closes ...float64) []domain.DailyPrice {
	return testingpkg.NewDailyPriceFixtures(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), closes...)
}

func TestPriceValidator_ValidatePrice(t *testing.T) {
	validator := NewPriceValidator(zerolog.Nop())

	tests := []struct {
		name   string
		prices []domain.DailyPrice
		index  int
		want   bool
		reason string
	}{
		{name: "normal move", prices: priceRun(100, 103, 101), index: 1, want: true},
		{name: "reverting spike", prices: priceRun(100, 1500, 101), index: 1, want: false, reason: "spike_detected"},
		{name: "reverting crash", prices: priceRun(100, 5, 99), index: 1, want: false, reason: "crash_detected"},
		{name: "sustained crash is real", prices: priceRun(100, 5, 5), index: 1, want: true},
		{name: "sustained spike is real", prices: priceRun(1, 20, 21), index: 1, want: true},
		{name: "zero close", prices: priceRun(100, 0, 100), index: 1, want: false, reason: "non_positive"},
		{name: "first point is not compared", prices: priceRun(5, 100, 100), index: 0, want: true},
		{name: "last point is not compared", prices: priceRun(100, 100, 5), index: 2, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := validator.ValidatePrice(tt.prices, tt.index)
			assert.Equal(t, tt.want, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestPriceValidator_InterpolatePrice(t *testing.T) {
	validator := NewPriceValidator(zerolog.Nop())

	t.Run("midpoint", func(t *testing.T) {
		got, err := validator.InterpolatePrice(priceRun(100, 1500, 110), 1)
		require.NoError(t, err)
		assert.InDelta(t, 105.0, got.AdjClose, 1e-9)
		assert.InDelta(t, 105.0, got.Close, 1e-9)
		assert.Equal(t, "2025-01-14", got.Date)
	})

	t.Run("weighted by calendar days", func(t *testing.T) {
		prices := []domain.DailyPrice{
			{Date: "2025-01-10", AdjClose: 100},
			{Date: "2025-01-11", AdjClose: 2000},
			{Date: "2025-01-14", AdjClose: 120},
		}
		got, err := validator.InterpolatePrice(prices, 1)
		require.NoError(t, err)
		assert.InDelta(t, 105.0, got.AdjClose, 1e-9)
	})

	t.Run("edge cannot be interpolated", func(t *testing.T) {
		_, err := validator.InterpolatePrice(priceRun(0, 100), 0)
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		prices := priceRun(100, 1500, 101)
		prices[1].Date = "not-a-date"
		_, err := validator.InterpolatePrice(prices, 1)
		assert.Error(t, err)
	})
}

func TestPriceValidator_ValidateAndInterpolate(t *testing.T) {
	validator := NewPriceValidator(zerolog.Nop())

	t.Run("clean data is untouched", func(t *testing.T) {
		prices := priceRun(100, 101, 102, 103)
		got, logs := validator.ValidateAndInterpolate(prices)
		assert.Equal(t, prices, got)
		assert.Empty(t, logs)
	})

	t.Run("glitches are repaired", func(t *testing.T) {
		got, logs := validator.ValidateAndInterpolate(priceRun(100, 1500, 102, 3, 104))
		require.Len(t, got, 5)
		require.Len(t, logs, 2)

		assert.InDelta(t, 101.0, got[1].AdjClose, 1e-9)
		assert.Equal(t, "spike_detected", logs[0].Reason)
		assert.Equal(t, 1500.0, logs[0].OriginalClose)

		assert.InDelta(t, 103.0, got[3].AdjClose, 1e-9)
		assert.Equal(t, "crash_detected", logs[1].Reason)
	})

	t.Run("non-positive edge is dropped", func(t *testing.T) {
		got, logs := validator.ValidateAndInterpolate(priceRun(0, 100, 101))
		require.Len(t, got, 2)
		assert.Equal(t, "2025-01-14", got[0].Date)
		assert.Empty(t, logs)
	})

	t.Run("input is not modified", func(t *testing.T) {
		prices := priceRun(100, 1500, 101)
		validator.ValidateAndInterpolate(prices)
		assert.Equal(t, 1500.0, prices[1].AdjClose)
	})
}
