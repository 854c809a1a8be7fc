package prices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	dateLayout         = "2006-01-02"
	defaultHistoryDays = 365
	historyCacheTTL    = 15 * time.Minute

	// Stored history counts as fresh when its last row is within this many
	// days of the requested end. Three days spans a normal weekend.
	staleAfterDays = 3
	// Slack allowed between the requested start and the first stored row,
	// since the start may fall on a weekend or holiday.
	startSlackDays = 7
)

// BarSource fetches daily bars from an upstream provider
type BarSource interface {
	GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]marketdata.DailyBar, error)
}

// Service serves price history, filling the local database from the
// upstream provider when stored rows do not cover the requested range
type Service struct {
	repo   *Repository
	cache  *Cache
	source BarSource
	log    zerolog.Logger
}

// NewService creates a new price service. The cache may be nil.
func NewService(repo *Repository, cache *Cache, source BarSource, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		source: source,
		log:    log.With().Str("service", "prices").Logger(),
	}
}

// Repo exposes the underlying repository for read-only consumers
func (s *Service) Repo() *Repository {
	return s.repo
}

// History returns daily prices for the trailing window of the given length
// ending at end. A zero end means today; days of zero or less selects the
// default one-year window. Stored rows are used when they cover the range,
// otherwise the window is fetched upstream, enriched and persisted.
func (s *Service) History(ctx context.Context, ticker string, days int, end time.Time) ([]DailyPrice, error) {
	start, endDay := resolveRange(end, days)
	startStr := start.Format(dateLayout)
	endStr := endDay.Format(dateLayout)

	cacheKey := fmt.Sprintf("history|%s|%s|%s", ticker, startStr, endStr)
	if s.cache != nil {
		var cached []DailyPrice
		if s.cache.Get(cacheKey, &cached) {
			return cached, nil
		}
	}

	rows, err := s.repo.GetRange(ticker, startStr, endStr)
	if err != nil {
		return nil, err
	}

	if isCovered(rows, start, endDay) {
		if s.cache != nil {
			s.cache.Set(cacheKey, rows, historyCacheTTL)
		}
		return rows, nil
	}

	bars, err := s.source.GetDailyBars(ctx, ticker, start, endDay)
	if err != nil {
		// Stale rows beat no rows.
		if len(rows) > 0 {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Upstream fetch failed, serving stored history")
			return rows, nil
		}
		return nil, err
	}

	enriched := enrich(ticker, bars, nil, nil)
	if err := s.repo.ReplaceRange(ticker, startStr, endStr, enriched); err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to store fetched history")
	}
	if s.cache != nil {
		s.cache.Set(cacheKey, enriched, historyCacheTTL)
	}
	return enriched, nil
}

// Sync pulls rows newer than the last stored date for a ticker and appends
// them, continuing the derived columns from the stored tail. A ticker with
// no stored rows gets the default one-year backfill. Returns how many rows
// were written.
func (s *Service) Sync(ctx context.Context, ticker string) (int, error) {
	endDay := today()

	last, err := s.repo.LastDate(ticker)
	if err != nil {
		return 0, err
	}

	var start time.Time
	var prev *DailyPrice
	var base *float64

	if last == "" {
		start = endDay.AddDate(0, 0, -defaultHistoryDays)
	} else {
		lastDay, err := time.Parse(dateLayout, last)
		if err != nil {
			return 0, fmt.Errorf("stored last date %q is malformed: %w", last, err)
		}
		start = lastDay.AddDate(0, 0, 1)
		if start.After(endDay) {
			return 0, nil
		}

		prev, err = s.repo.LastRow(ticker)
		if err != nil {
			return 0, err
		}
		base, err = s.repo.FirstClose(ticker)
		if err != nil {
			return 0, err
		}
	}

	bars, err := s.source.GetDailyBars(ctx, ticker, start, endDay)
	if errors.Is(err, marketdata.ErrNoData) {
		// Nothing new upstream; normal on weekends and holidays.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	enriched := enrich(ticker, bars, prev, base)
	startStr := start.Format(dateLayout)
	endStr := endDay.Format(dateLayout)
	if err := s.repo.ReplaceRange(ticker, startStr, endStr, enriched); err != nil {
		return 0, err
	}

	s.log.Info().
		Str("ticker", ticker).
		Int("rows", len(enriched)).
		Str("from", startStr).
		Msg("Synced price history")
	return len(enriched), nil
}

// enrich converts upstream bars into storable rows, computing the EMA and
// cumulative yield columns. prev seeds the EMA recurrences when continuing
// a stored series; base overrides the yield baseline (first close of the
// batch otherwise).
func enrich(ticker string, bars []marketdata.DailyBar, prev *DailyPrice, base *float64) []DailyPrice {
	if len(bars) == 0 {
		return []DailyPrice{}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	var prevEMA50, prevEMA200 *float64
	if prev != nil {
		prevEMA50 = prev.EMA50
		prevEMA200 = prev.EMA200
	}
	ema50 := ewmaSpan(closes, 50, prevEMA50)
	ema200 := ewmaSpan(closes, 200, prevEMA200)

	baseClose := closes[0]
	if base != nil && *base != 0 {
		baseClose = *base
	}

	rows := make([]DailyPrice, len(bars))
	for i, b := range bars {
		volume := b.Volume
		yieldPct := (b.Close - baseClose) / baseClose * 100

		rows[i] = DailyPrice{
			Ticker:    ticker,
			Date:      b.Date.Format(dateLayout),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    &volume,
			Dividends: b.Dividends,
			EMA50:     floatPtr(ema50[i]),
			EMA200:    floatPtr(ema200[i]),
			Yield:     floatPtr(yieldPct),
		}
	}
	return rows
}

// ewmaSpan runs the exponential smoothing recurrence with the conventional
// alpha for the span, optionally continuing from a seed value
func ewmaSpan(series []float64, span int, seed *float64) []float64 {
	if seed == nil {
		out, _ := formulas.ExponentialWeightedMovingAverage(series, span, nil)
		return out
	}

	a := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(series))
	carry := *seed
	for i := range series {
		carry = a*series[i] + (1-a)*carry
		out[i] = carry
	}
	return out
}

func resolveRange(end time.Time, days int) (time.Time, time.Time) {
	if end.IsZero() {
		end = today()
	} else {
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	return end.AddDate(0, 0, -days), end
}

func isCovered(rows []DailyPrice, start, end time.Time) bool {
	if len(rows) == 0 {
		return false
	}
	lastOK := rows[len(rows)-1].Date >= end.AddDate(0, 0, -staleAfterDays).Format(dateLayout)
	firstOK := rows[0].Date <= start.AddDate(0, 0, startSlackDays).Format(dateLayout)
	return lastOK && firstOK
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
