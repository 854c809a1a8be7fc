// Package analysis derives per-ticker metrics, indicator overlays and
// valuation series from stored price history.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
)

const (
	DefaultIndicatorWindow = 20
	rsiPeriod              = 14

	dateLayout = "2006-01-02"
)

// PriceHistory serves daily price windows
type PriceHistory interface {
	History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error)
}

// QuoteSource serves the latest quote snapshot
type QuoteSource interface {
	GetQuote(ctx context.Context, ticker string) (*marketdata.Quote, error)
}

// EPSSource serves reported earnings per share keyed by fiscal year
type EPSSource interface {
	EPSByYear(ctx context.Context, ticker string) (map[int]float64, error)
}

// Service computes ticker analytics
type Service struct {
	prices PriceHistory
	quotes QuoteSource
	eps    EPSSource
	log    zerolog.Logger
}

// NewService creates a new analysis service
func NewService(prices PriceHistory, quotes QuoteSource, eps EPSSource, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		quotes: quotes,
		eps:    eps,
		log:    log.With().Str("service", "analysis").Logger(),
	}
}

// Metrics summarizes the ticker's stored window: latest price and
// day-over-day change, volume statistics, period extremes and coverage.
func (s *Service) Metrics(ctx context.Context, ticker string, days int) (*TickerMetrics, error) {
	rows, err := s.prices.History(ctx, ticker, days, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no price history for %s: %w", ticker, formulas.ErrInsufficientData)
	}

	last := rows[len(rows)-1]

	change := 0.0
	changePct := 0.0
	if len(rows) > 1 {
		prev := rows[len(rows)-2].Close
		change = last.Close - prev
		if prev != 0 {
			changePct = change / prev * 100
		}
	}

	high := 0.0
	low := 0.0
	var volumeSum, volumeCount int64
	for i, row := range rows {
		h, l := row.High, row.Low
		if h == 0 {
			h = row.Close
		}
		if l == 0 {
			l = row.Close
		}
		if i == 0 || h > high {
			high = h
		}
		if i == 0 || l < low {
			low = l
		}
		if row.Volume != nil {
			volumeSum += *row.Volume
			volumeCount++
		}
	}

	var avgVolume *float64
	if volumeCount > 0 {
		avg := float64(volumeSum) / float64(volumeCount)
		avgVolume = &avg
	}

	return &TickerMetrics{
		Ticker:      ticker,
		LatestPrice: last.Close,
		Change:      change,
		ChangePct:   changePct,
		Volume:      last.Volume,
		AvgVolume:   avgVolume,
		PeriodHigh:  high,
		PeriodLow:   low,
		FirstDate:   rows[0].Date,
		LastDate:    last.Date,
		RecordCount: len(rows),
	}, nil
}

// History returns the enriched daily rows for the requested window.
func (s *Service) History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error) {
	return s.prices.History(ctx, ticker, days, end)
}

// Indicators computes the smoothing and momentum overlays for the
// ticker's close series: WMA and EWMA over the given window, cumulative
// yield since the window start and a 14-day RSI.
func (s *Service) Indicators(ctx context.Context, ticker string, days, window int) (*IndicatorSeries, error) {
	rows, err := s.prices.History(ctx, ticker, days, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no price history for %s: %w", ticker, formulas.ErrInsufficientData)
	}

	closes := prices.Closes(rows)
	dates := make([]string, len(rows))
	for i, row := range rows {
		dates[i] = row.Date
	}

	wma, err := formulas.WeightedMovingAverage(closes, window, nil)
	if err != nil {
		return nil, err
	}
	ewma, err := formulas.ExponentialWeightedMovingAverage(closes, window, nil)
	if err != nil {
		return nil, err
	}
	yield, err := formulas.CumulativeYield(closes, formulas.MethodSimple)
	if err != nil {
		return nil, err
	}

	// talib emits zeros while warming up, which would read as a real
	// oversold level. Blank them instead.
	var rsi []*float64
	if len(closes) > rsiPeriod {
		rsi = nullableAfterWarmup(talib.Rsi(closes, rsiPeriod), rsiPeriod)
	} else {
		rsi = make([]*float64, len(closes))
	}

	return &IndicatorSeries{
		Ticker:          ticker,
		Window:          window,
		Dates:           dates,
		Close:           closes,
		WMA:             nullable(wma),
		EWMA:            nullable(ewma),
		CumulativeYield: nullable(yield),
		RSI:             rsi,
	}, nil
}

// Valuation builds the historic P/E series from stored closes and
// reported yearly EPS, plus the forward multiple from the live quote.
// A missing or failing quote only blanks the forward figures.
func (s *Service) Valuation(ctx context.Context, ticker string, days int) (*Valuation, error) {
	rows, err := s.prices.History(ctx, ticker, days, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no price history for %s: %w", ticker, formulas.ErrInsufficientData)
	}

	eps, err := s.eps.EPSByYear(ctx, ticker)
	if err != nil {
		return nil, err
	}

	closes := prices.Closes(rows)
	dates := make([]string, len(rows))
	parsed := make([]time.Time, len(rows))
	for i, row := range rows {
		dates[i] = row.Date
		day, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("malformed stored date %q: %w", row.Date, err)
		}
		parsed[i] = day
	}

	historic, err := formulas.HistoricPERatio(parsed, closes, eps)
	if err != nil {
		return nil, err
	}

	result := &Valuation{
		Ticker:       ticker,
		Dates:        dates,
		HistoricPE:   nullable(historic),
		CurrentPrice: closes[len(closes)-1],
	}

	quote, err := s.quotes.GetQuote(ctx, ticker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("quote unavailable, omitting forward P/E")
		return result, nil
	}

	if quote.Price != nil {
		result.CurrentPrice = *quote.Price
	}
	if quote.ForwardEPS != nil {
		result.ForwardEPS = quote.ForwardEPS
		forward := formulas.ForwardPERatio(result.CurrentPrice, *quote.ForwardEPS)
		result.ForwardPE = floatPtr(forward)
	}
	return result, nil
}

func floatPtr(v float64) *float64 {
	out := nullable([]float64{v})
	return out[0]
}
