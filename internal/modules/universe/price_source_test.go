package universe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlens/internal/domain"
	testingpkg "github.com/aristath/factorlens/internal/testing"
)

// MockPriceFetcher is a mock implementation of PriceFetcher
type MockPriceFetcher struct {
	mock.Mock
}

func (m *MockPriceFetcher) GetDailyPrices(ctx context.Context, ticker string) ([]domain.DailyPrice, error) {
	args := m.Called(ctx, ticker)
	prices, _ := args.Get(0).([]domain.DailyPrice)
	return prices, args.Error(1)
}

func setupPriceSource(t *testing.T, fetcher PriceFetcher, now time.Time) (*PriceSource, *HistoryDB) {
	history := setupHistoryDB(t)
	source := NewPriceSource(history, fetcher, 24*time.Hour, zerolog.Nop())
	source.now = func() time.Time { return now }
	return source, history
}

func TestPriceSource_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	fetcher := new(MockPriceFetcher)
	fetcher.On("GetDailyPrices", mock.Anything, "AAPL").Return(priceRun(100, 1500, 102), nil).Once()

	source, history := setupPriceSource(t, fetcher, now)

	series, err := source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 101.0, series[1].Price, 1e-9)

	// Second call within the TTL is served from the database
	series, err = source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, series, 3)

	info, err := history.GetSyncInfo(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, now, info.SyncedAt)

	fetcher.AssertExpectations(t)
}

func TestPriceSource_RefreshesWhenStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	fetcher := new(MockPriceFetcher)
	fetcher.On("GetDailyPrices", mock.Anything, "AAPL").Return(priceRun(100, 101, 102, 103), nil).Once()

	source, history := setupPriceSource(t, fetcher, now)
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", priceRun(100, 101), now.Add(-48*time.Hour)))

	series, err := source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, series, 4)
	fetcher.AssertExpectations(t)
}

func TestPriceSource_StaleFallback(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	fetcher := new(MockPriceFetcher)
	fetcher.On("GetDailyPrices", mock.Anything, "AAPL").Return(nil, errors.New("upstream down"))

	source, history := setupPriceSource(t, fetcher, now)
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", priceRun(100, 101), now.Add(-72*time.Hour)))

	series, err := source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestPriceSource_Errors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	t.Run("upstream failure without cache", func(t *testing.T) {
		fetcher := new(MockPriceFetcher)
		fetcher.On("GetDailyPrices", mock.Anything, "MSFT").Return(nil, errors.New("upstream down"))

		source, _ := setupPriceSource(t, fetcher, now)
		_, err := source.GetPriceSeries(ctx, "MSFT")
		assert.ErrorContains(t, err, "upstream down")
	})

	t.Run("empty upstream history", func(t *testing.T) {
		fetcher := new(MockPriceFetcher)
		fetcher.On("GetDailyPrices", mock.Anything, "MSFT").Return([]domain.DailyPrice{}, nil)

		source, _ := setupPriceSource(t, fetcher, now)
		_, err := source.GetPriceSeries(ctx, "MSFT")
		assert.ErrorIs(t, err, ErrNoPriceData)
	})
}

func TestPriceSource_CachedSeriesMatchesRefreshedSeries(t *testing.T) {
	ctx := context.Background()
	synced := time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)
	fetcher := new(MockPriceFetcher)
	rescaled := testingpkg.NewDailyPriceFixtures(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 50, 50, 50)
	fetcher.On("GetDailyPrices", mock.Anything, "AAPL").Return(rescaled, nil).Once()

	source, history := setupPriceSource(t, fetcher, synced.Add(48*time.Hour))
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", priceRun(100, 100, 100, 100), synced))

	refreshed, err := source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)

	cached, err := source.GetPriceSeries(ctx, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, refreshed, cached)
	require.Len(t, cached, 3)
	for _, p := range cached {
		assert.Equal(t, 50.0, p.Price)
	}
	fetcher.AssertExpectations(t)
}
