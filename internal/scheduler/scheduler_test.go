package scheduler

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
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string {
	return "counting"
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 30 22 * * MON-FRI", &countingJob{}))
	require.NoError(t, s.AddJob("@every 1h", &countingJob{}))
	assert.Equal(t, 2, s.Entries())

	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Equal(t, 2, s.Entries())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, 1, job.runs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	s.Stop()
}

// MockPriceRefresher is a mock implementation of PriceRefresher
type MockPriceRefresher struct {
	mock.Mock
}

func (m *MockPriceRefresher) Refresh(ctx context.Context, ticker string) ([]domain.DailyPrice, error) {
	args := m.Called(ctx, ticker)
	prices, _ := args.Get(0).([]domain.DailyPrice)
	return prices, args.Error(1)
}

type tickerList []string

func (l tickerList) AllTickers() []string {
	return l
}

func TestRefreshPricesJob_Run(t *testing.T) {
	t.Run("failures do not stop other tickers", func(t *testing.T) {
		refresher := new(MockPriceRefresher)
		refresher.On("Refresh", mock.Anything, "AAPL").Return(nil, errors.New("not found"))
		refresher.On("Refresh", mock.Anything, "MSFT").Return([]domain.DailyPrice{{Date: "2025-01-13"}}, nil)

		job := NewRefreshPricesJob(refresher, tickerList{"AAPL", "MSFT"}, time.Minute, zerolog.Nop())
		assert.Equal(t, "refresh_prices", job.Name())
		assert.NoError(t, job.Run())
		refresher.AssertExpectations(t)
	})

	t.Run("all tickers failing is an error", func(t *testing.T) {
		refresher := new(MockPriceRefresher)
		refresher.On("Refresh", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))

		job := NewRefreshPricesJob(refresher, tickerList{"AAPL", "MSFT"}, 0, zerolog.Nop())
		assert.Error(t, job.Run())
		refresher.AssertNumberOfCalls(t, "Refresh", 2)
	})

	t.Run("empty ticker list", func(t *testing.T) {
		job := NewRefreshPricesJob(new(MockPriceRefresher), tickerList{}, 0, zerolog.Nop())
		assert.NoError(t, job.Run())
	})
}

type stubPruner struct {
	cutoff time.Time
	err    error
}

func (p *stubPruner) DeletePricesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 3, p.err
}

func TestPrunePricesJob_Run(t *testing.T) {
	now := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	pruner := &stubPruner{}
	job := NewPrunePricesJob(pruner, 24*time.Hour, zerolog.Nop())
	job.now = func() time.Time { return now }

	assert.Equal(t, "prune_prices", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, now.Add(-24*time.Hour), pruner.cutoff)

	pruner.err = errors.New("locked")
	assert.Error(t, job.Run())
}
