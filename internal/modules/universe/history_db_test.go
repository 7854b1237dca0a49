package universe

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlens/internal/database"
	"github.com/aristath/factorlens/internal/domain"
	testingpkg "github.com/aristath/factorlens/internal/testing"
)

func setupHistoryDB(t *testing.T) *HistoryDB {
	return NewHistoryDB(testingpkg.NewMemoryDB(t, database.NameHistory), zerolog.Nop())
}

func TestHistoryDB_SyncAndGet(t *testing.T) {
	history := setupHistoryDB(t)
	ctx := context.Background()
	syncedAt := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	prices := []domain.DailyPrice{
		{Date: "2025-01-15", Close: 102, AdjClose: 101.5, Volume: 1200},
		{Date: "2025-01-13", Close: 100, AdjClose: 99.5, Volume: 1000},
		{Date: "2025-01-14", Close: 101, AdjClose: 100.5},
	}
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", prices, syncedAt))

	got, err := history.GetDailyPrices(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-01-13", got[0].Date)
	assert.Equal(t, 99.5, got[0].AdjClose)
	assert.Equal(t, int64(1000), got[0].Volume)
	assert.Equal(t, int64(0), got[1].Volume)
	assert.Equal(t, "2025-01-15", got[2].Date)

	info, err := history.GetSyncInfo(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, syncedAt, info.SyncedAt)
	assert.Equal(t, 3, info.Points)
	assert.Equal(t, "2025-01-13", info.FirstDate)
	assert.Equal(t, "2025-01-15", info.LastDate)

	other, err := history.GetDailyPrices(ctx, "MSFT")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistoryDB_ResyncReplacesRows(t *testing.T) {
	history := setupHistoryDB(t)
	ctx := context.Background()

	first := []domain.DailyPrice{{Date: "2025-01-13", Close: 100, AdjClose: 100}}
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", first, time.Now()))

	second := []domain.DailyPrice{{Date: "2025-01-13", Close: 100, AdjClose: 98}}
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", second, time.Now()))

	got, err := history.GetDailyPrices(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 98.0, got[0].AdjClose)
}

func TestHistoryDB_SyncRollsBackOnBadDate(t *testing.T) {
	history := setupHistoryDB(t)
	ctx := context.Background()

	prices := []domain.DailyPrice{
		{Date: "2025-01-13", Close: 100, AdjClose: 100},
		{Date: "13/01/2025", Close: 101, AdjClose: 101},
	}
	assert.Error(t, history.SyncHistoricalPrices(ctx, "AAPL", prices, time.Now()))

	got, err := history.GetDailyPrices(ctx, "AAPL")
	require.NoError(t, err)
	assert.Empty(t, got)

	info, err := history.GetSyncInfo(ctx, "AAPL")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestHistoryDB_DeletePricesBefore(t *testing.T) {
	history := setupHistoryDB(t)
	ctx := context.Background()

	prices := []domain.DailyPrice{
		{Date: "2010-06-01", Close: 10, AdjClose: 10},
		{Date: "2025-01-13", Close: 100, AdjClose: 100},
	}
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", prices, time.Now()))

	deleted, err := history.DeletePricesBefore(ctx, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	got, err := history.GetDailyPrices(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-13", got[0].Date)
}

func TestHistoryDB_ResyncDropsRowsOutsideNewRange(t *testing.T) {
	history := setupHistoryDB(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL",
		testingpkg.NewDailyPriceFixtures(start, 100, 100, 100, 100), start))
	require.NoError(t, history.SyncHistoricalPrices(ctx, "MSFT",
		testingpkg.NewDailyPriceFixtures(start, 300, 301), start))

	// The upstream window moved forward and the adjusted closes were rescaled
	rescaled := testingpkg.NewDailyPriceFixtures(start.AddDate(0, 0, 2), 50, 50, 50)
	require.NoError(t, history.SyncHistoricalPrices(ctx, "AAPL", rescaled, start.Add(48*time.Hour)))

	got, err := history.GetDailyPrices(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, rescaled, got)

	info, err := history.GetSyncInfo(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 3, info.Points)
	assert.Equal(t, "2025-01-15", info.FirstDate)

	other, err := history.GetDailyPrices(ctx, "MSFT")
	require.NoError(t, err)
	assert.Len(t, other, 2)
}
