package prices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves canned bars and counts calls
type stubSource struct {
	bars  []marketdata.DailyBar
	err   error
	calls int
}

func (s *stubSource) GetDailyBars(_ context.Context, _ string, _, _ time.Time) ([]marketdata.DailyBar, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.bars, nil
}

func barsEndingToday(closes []float64) []marketdata.DailyBar {
	end := today()
	bars := make([]marketdata.DailyBar, len(closes))
	for i := range closes {
		bars[i] = marketdata.DailyBar{
			Date:   end.AddDate(0, 0, i-len(closes)+1),
			Open:   closes[i] - 1,
			High:   closes[i] + 1,
			Low:    closes[i] - 2,
			Close:  closes[i],
			Volume: 1000,
		}
	}
	return bars
}

func TestHistoryFetchesEnrichesAndPersists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	source := &stubSource{bars: barsEndingToday([]float64{100, 102, 104})}
	svc := NewService(repo, nil, source, zerolog.Nop())

	got, err := svc.History(context.Background(), "AAPL", 5, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, source.calls)

	// Derived columns are filled in.
	require.NotNil(t, got[0].Yield)
	assert.InDelta(t, 0, *got[0].Yield, 1e-9, "yield baseline is the first close")
	require.NotNil(t, got[2].Yield)
	assert.InDelta(t, 4, *got[2].Yield, 1e-9)
	require.NotNil(t, got[0].EMA50)
	assert.InDelta(t, 100, *got[0].EMA50, 1e-9, "smoothing starts at the first close")

	// Rows were persisted.
	stored, err := repo.GetRange("AAPL", "1900-01-01", "2999-12-31")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestHistoryServesStoredRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	source := &stubSource{bars: barsEndingToday([]float64{100, 102, 104})}
	svc := NewService(repo, nil, source, zerolog.Nop())

	// First call warms the database.
	_, err := svc.History(context.Background(), "AAPL", 5, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)

	// Covered range is served without going upstream.
	got, err := svc.History(context.Background(), "AAPL", 5, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, source.calls)
}

func TestHistoryUsesCache(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	cache := NewCache(db, zerolog.Nop())
	source := &stubSource{bars: barsEndingToday([]float64{100, 102})}
	svc := NewService(repo, cache, source, zerolog.Nop())

	_, err := svc.History(context.Background(), "AAPL", 5, time.Time{})
	require.NoError(t, err)

	got, err := svc.History(context.Background(), "AAPL", 5, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, source.calls)
}

func TestHistoryFallsBackToStoredRowsOnUpstreamFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	// Seed stale rows that do not cover today.
	old := today().AddDate(0, 0, -30).Format(dateLayout)
	require.NoError(t, repo.ReplaceRange("AAPL", old, old, testRows("AAPL", []string{old}, []float64{100})))

	source := &stubSource{err: errors.New("connection refused")}
	svc := NewService(repo, nil, source, zerolog.Nop())

	got, err := svc.History(context.Background(), "AAPL", 60, time.Time{})
	require.NoError(t, err, "stale rows beat a hard failure")
	assert.Len(t, got, 1)
}

func TestHistoryPropagatesUpstreamFailureWithoutStoredRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	source := &stubSource{err: marketdata.ErrNoData}
	svc := NewService(repo, nil, source, zerolog.Nop())

	_, err := svc.History(context.Background(), "NOPE", 30, time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrNoData)
}

func TestSyncBackfillsNewTicker(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	source := &stubSource{bars: barsEndingToday([]float64{100, 101, 102})}
	svc := NewService(repo, nil, source, zerolog.Nop())

	n, err := svc.Sync(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	last, err := repo.LastDate("AAPL")
	require.NoError(t, err)
	assert.Equal(t, today().Format(dateLayout), last)
}

func TestSyncAlreadyUpToDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	todayStr := today().Format(dateLayout)
	require.NoError(t, repo.ReplaceRange("AAPL", todayStr, todayStr,
		testRows("AAPL", []string{todayStr}, []float64{100})))

	source := &stubSource{}
	svc := NewService(repo, nil, source, zerolog.Nop())

	n, err := svc.Sync(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, source.calls, "an up to date ticker never hits upstream")
}

func TestSyncContinuesDerivedColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	// Stored tail: base close 100 five days ago, EMA50 at 101 yesterday.
	baseDay := today().AddDate(0, 0, -5).Format(dateLayout)
	lastDay := today().AddDate(0, 0, -1).Format(dateLayout)
	seeded := testRows("AAPL", []string{baseDay, lastDay}, []float64{100, 102})
	ema := 101.0
	seeded[1].EMA50 = &ema
	require.NoError(t, repo.ReplaceRange("AAPL", baseDay, lastDay, seeded))

	source := &stubSource{bars: []marketdata.DailyBar{{
		Date: today(), Open: 103, High: 105, Low: 102, Close: 104, Volume: 500,
	}}}
	svc := NewService(repo, nil, source, zerolog.Nop())

	n, err := svc.Sync(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row, err := repo.LastRow("AAPL")
	require.NoError(t, err)
	require.NotNil(t, row)

	// EMA continues the stored recurrence instead of restarting.
	alpha := 2.0 / 51.0
	require.NotNil(t, row.EMA50)
	assert.InDelta(t, alpha*104+(1-alpha)*101, *row.EMA50, 1e-9)

	// Yield is measured against the ticker's first stored close.
	require.NotNil(t, row.Yield)
	assert.InDelta(t, 4, *row.Yield, 1e-9)
}

func TestSyncTreatsNoDataAsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())

	lastDay := today().AddDate(0, 0, -1).Format(dateLayout)
	require.NoError(t, repo.ReplaceRange("AAPL", lastDay, lastDay,
		testRows("AAPL", []string{lastDay}, []float64{100})))

	source := &stubSource{err: marketdata.ErrNoData}
	svc := NewService(repo, nil, source, zerolog.Nop())

	n, err := svc.Sync(context.Background(), "AAPL")
	require.NoError(t, err, "a quiet upstream is not a sync failure")
	assert.Equal(t, 0, n)
}
